// Package model defines the data structures used throughout the application.
package model

// User represents a registered account.
//
// IDs are assigned sequentially at registration time (the directory size at
// the moment of insert), so the first registered user gets id 0. Users are
// immutable after registration and are never deleted.
//
// The password is stored and compared verbatim, with no hashing or salting.
// This is part of the service's wire contract and a known weakness; the
// JSON tag makes sure the value at least never leaves the process.
type User struct {
	ID       uint32 `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
