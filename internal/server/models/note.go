package models

import "time"

// Note is a protected record. OwnerID never changes after creation. Shared
// lists account ids the note is readable by; it never contains OwnerID and
// holds each id at most once.
type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	Shared    []string
}
