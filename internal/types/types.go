// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and the client can all import types without
// depending on each other.
package types

// Student is one roster entry.
//
// The roster is keyed by ID, so on the wire a list of students is a JSON
// object {"1": "Alice", "2": "Bob"} rather than an array of Student values.
// Student itself is what a single lookup (check, create) returns.
type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StudentRequest is the JSON body accepted by create and update.
//
// Name is a pointer so that "required" means "the key was sent": an
// explicit empty string {"name": ""} is accepted, a missing key is not.
// No other rules apply to the name (length, charset).
type StudentRequest struct {
	Name *string `json:"name" validate:"required"`
}
