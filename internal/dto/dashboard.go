package dto

import (
	"time"

	"github.com/GregMSThompson/owms-dashboard/internal/models"
)

// Caller identifies the session user a request acts for. Token is the raw
// bearer token, forwarded to the OWMS API on widget data fetches.
type Caller struct {
	UID   string
	Role  string
	Token string
}

// --- Request types ---

type SavePreferencesRequest struct {
	Layout  []models.WidgetPreference `json:"layout"`
	Version *int64                    `json:"version,omitempty"`
}

type ReorderRequest struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

type SetEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// --- Response types ---

type PreferencesResponse struct {
	Layout    []models.WidgetPreference `json:"layout"`
	Version   int64                     `json:"version"`
	IsDefault bool                      `json:"isDefault"`
	UpdatedAt *time.Time                `json:"updatedAt,omitempty"`
}

// GridWidget is one visible widget in display order.
type GridWidget struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category"`
	Size         string `json:"size"`
	RendererType string `json:"rendererType"`
	Order        int    `json:"order"`
}

type DashboardResponse struct {
	Role    string       `json:"role"`
	Version int64        `json:"version"`
	Widgets []GridWidget `json:"widgets"`
}

// LayoutCommandResult is returned by reorder, resize, and enable commands.
// Changed is false when the command was a no-op and nothing was written.
type LayoutCommandResult struct {
	Changed bool                      `json:"changed"`
	Version int64                     `json:"version"`
	Layout  []models.WidgetPreference `json:"layout"`
	Widgets []GridWidget              `json:"widgets"`
}

// CatalogEntry describes a widget the caller may add to the dashboard.
type CatalogEntry struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category"`
	MinRole      string `json:"minRole"`
	DefaultSize  string `json:"defaultSize"`
	RendererType string `json:"rendererType"`
	Enabled      bool   `json:"enabled"`
}

type RenderedDashboard struct {
	Role       string       `json:"role"`
	Version    int64        `json:"version"`
	Widgets    []WidgetView `json:"widgets"`
	RenderedAt time.Time    `json:"renderedAt"`
}
