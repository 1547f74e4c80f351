package models

import "time"

// Note is owned by exactly one user. UserID is set at creation and never
// reassigned; every repository operation filters on it.
type Note struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteListItem is the projection the notes index renders.
type NoteListItem struct {
	ID    string
	Title string
}
