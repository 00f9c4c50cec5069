package models

import "time"

// WidgetPreference is one user's visibility, order, and size override for a
// registry widget. ID is not checked against the registry; stale ids are
// skipped when the grid is built.
type WidgetPreference struct {
	ID      string `firestore:"id" json:"id"`
	Enabled bool   `firestore:"enabled" json:"enabled"`
	Order   int    `firestore:"order" json:"order"`
	Size    string `firestore:"size,omitempty" json:"size,omitempty"` // "" keeps the registry default
}

// DashboardPreferences is the single Firestore document holding a user's
// layout. Layout is replaced wholesale on every save.
type DashboardPreferences struct {
	Layout    []WidgetPreference `firestore:"layout" json:"layout"`
	Version   int64              `firestore:"version" json:"version"`
	CreatedAt time.Time          `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `firestore:"updatedAt" json:"updatedAt"`
}
