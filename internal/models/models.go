package models

// User is the persisted account record. PassHash is never serialized;
// handlers expose users through their own DTOs.
type User struct {
	ID       string
	Email    string
	Name     string
	Phone    string
	PassHash []byte
}

// Token is a persisted session marker. At most one row exists per user;
// presence of the row is what makes a bearer token an active session.
type Token struct {
	UserID string
	Token  string
}

type Country struct {
	ID          string `json:"id"`
	CountryCode string `json:"CountryCode"`
	CountryName string `json:"CountryName"`
	Active      bool   `json:"Active"`
	SortSeq     int    `json:"SortSeq"`
}

type State struct {
	ID          string `json:"id"`
	StateCode   string `json:"StateCode"`
	StateName   string `json:"StateName"`
	CountryCode string `json:"CountryCode"`
	Active      bool   `json:"Active"`
	SortSeq     int    `json:"SortSeq"`
}

type City struct {
	ID          string `json:"id"`
	CityName    string `json:"CityName"`
	StateCode   string `json:"StateCode"`
	CountryCode string `json:"CountryCode"`
	Active      bool   `json:"Active"`
	SortSeq     int    `json:"SortSeq"`
}

// Message is a signup event published to the mail queue.
type Message struct {
	Email   string `json:"to"`
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
}
