// Package models contains data structures for the application's domain models.
package models

import "github.com/google/uuid"

// assignID gives a new row a UUIDv4 unless the caller already chose one.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
