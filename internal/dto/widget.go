package dto

import "time"

// Widget view states
const (
	WidgetStateOK    = "ok"
	WidgetStateError = "error"
)

// Widget error codes
const (
	WidgetErrFetchFailed  = "fetch_failed"
	WidgetErrRenderFailed = "render_failed"
)

// Body kinds
const (
	BodyStat        = "stat"
	BodyChart       = "chart"
	BodyList        = "list"
	BodyAlert       = "alert"
	BodyCalendar    = "calendar"
	BodyCustom      = "custom"
	BodyPlaceholder = "placeholder"
)

// WidgetView is the rendered card for one widget. A failing widget carries
// State "error" and an Error, never a Body.
type WidgetView struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Size            string       `json:"size"`
	RendererType    string       `json:"rendererType"`
	State           string       `json:"state"`
	Error           *WidgetError `json:"error,omitempty"`
	Body            *WidgetBody  `json:"body,omitempty"`
	FetchedAt       *time.Time   `json:"fetchedAt,omitempty"`
	Stale           bool         `json:"stale,omitempty"`
	RefreshAfterSec int          `json:"refreshAfterSec"`
}

type WidgetError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	ErrorID string `json:"errorId"`
}

// WidgetBody holds exactly one populated view, named by Kind.
type WidgetBody struct {
	Kind        string           `json:"kind"`
	Stat        *StatView        `json:"stat,omitempty"`
	Chart       *ChartView       `json:"chart,omitempty"`
	List        *ListView        `json:"list,omitempty"`
	Alert       *AlertView       `json:"alert,omitempty"`
	Calendar    *CalendarView    `json:"calendar,omitempty"`
	Custom      *CustomView      `json:"custom,omitempty"`
	Placeholder *PlaceholderView `json:"placeholder,omitempty"`
}

type StatView struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

type ChartView struct {
	ChartType   string           `json:"chartType"`
	DataKey     string           `json:"dataKey"`
	CategoryKey string           `json:"categoryKey,omitempty"`
	Stacked     bool             `json:"stacked,omitempty"`
	Height      int              `json:"height,omitempty"`
	Points      []map[string]any `json:"points"`
}

type ListView struct {
	Columns      []ListHeader `json:"columns"`
	Rows         []ListRow    `json:"rows"`
	Empty        bool         `json:"empty"`
	EmptyMessage string       `json:"emptyMessage,omitempty"`
	LinkTo       string       `json:"linkTo,omitempty"`
}

type ListHeader struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type ListRow struct {
	Cells []Cell `json:"cells"`
}

// Cell is one formatted list value. Badge is set for status columns.
type Cell struct {
	Text  string `json:"text"`
	Badge *Badge `json:"badge,omitempty"`
}

type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type AlertView struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

type CalendarView struct {
	Events []CalendarEvent `json:"events"`
}

type CalendarEvent struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
	Type  string `json:"type,omitempty"`
}

type CustomView struct {
	Data any `json:"data"`
}

type PlaceholderView struct {
	Message string `json:"message"`
}

// WidgetData is a payload fetched for one widget, with its cache metadata.
type WidgetData struct {
	Payload   any
	FetchedAt time.Time
	Stale     bool
	Cached    bool
}
