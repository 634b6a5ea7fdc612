package models

import "time"

// User represents a user in the directory
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  *Location `json:"location,omitempty"`
	FCMToken  *string   `json:"fcm_token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Location is a user's last reported position
type Location struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastSeen is a read-only projection of a user's most recent reported
// location and when it was recorded
type LastSeen struct {
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
}

// UserDetails is the result shape returned by the user search
type UserDetails struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// HasToken reports whether the user has a non-empty push token registered
func (u *User) HasToken() bool {
	return u.FCMToken != nil && *u.FCMToken != ""
}
