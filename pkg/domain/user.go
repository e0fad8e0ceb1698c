package domain

import "time"

// User is a registered account as returned by the users listing.
type User struct {
	ID                 string    `json:"_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	DateOfRegistration time.Time `json:"dateOfRegistration"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
