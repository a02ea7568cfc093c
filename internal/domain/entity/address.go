package entity

import "time"

// Address is a single entry in a user's address book. Every address is owned
// by exactly one user and is only visible or mutable through its owner.
type Address struct {
	ID        string
	Street    string
	City      string
	State     string
	Country   string
	ZipCode   string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
