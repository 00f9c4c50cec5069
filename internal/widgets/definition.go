package widgets

import (
	"errors"
	"fmt"
)

type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryTeam     Category = "team"
	CategoryDept     Category = "dept"
	CategoryCompany  Category = "company"
)

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

type RendererType string

const (
	RendererStat     RendererType = "stat"
	RendererChart    RendererType = "chart"
	RendererList     RendererType = "list"
	RendererAlert    RendererType = "alert"
	RendererCalendar RendererType = "calendar"
	RendererCustom   RendererType = "custom"
)

// Stat value formats
const (
	FormatNumber  = "number"
	FormatPercent = "percent"
	FormatDays    = "days"
)

// List column formats
const (
	ColumnText   = "text"
	ColumnDate   = "date"
	ColumnStatus = "status"
	ColumnNumber = "number"
)

// Chart types
const (
	ChartBar  = "bar"
	ChartLine = "line"
	ChartPie  = "pie"
	ChartArea = "area"
)

type StatConfig struct {
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	ValueKey string `json:"valueKey"`
	LabelKey string `json:"labelKey,omitempty"`
	Format   string `json:"format"`
}

type ChartConfig struct {
	ChartType   string `json:"chartType"`
	DataKey     string `json:"dataKey"`
	CategoryKey string `json:"categoryKey,omitempty"`
	Stacked     bool   `json:"stacked,omitempty"`
	Height      int    `json:"height,omitempty"`
}

type ListColumn struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Format string `json:"format,omitempty"`
}

type ListConfig struct {
	Columns      []ListColumn `json:"columns"`
	EmptyMessage string       `json:"emptyMessage,omitempty"`
	MaxItems     int          `json:"maxItems,omitempty"`
	LinkTo       string       `json:"linkTo,omitempty"`
}

type AlertConfig struct {
	CheckKey    string `json:"checkKey"`
	OKMessage   string `json:"okMessage"`
	WarnMessage string `json:"warnMessage"`
	Icon        string `json:"icon"`
}

// Definition describes what a widget can look like. Definitions are
// compiled in; user preferences only toggle, order, and resize them.
type Definition struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Category     Category     `json:"category"`
	MinRole      Role         `json:"minRole"`
	Size         Size         `json:"size"`
	RendererType RendererType `json:"rendererType"`
	APIPath      string       `json:"apiPath"`

	Stat  *StatConfig  `json:"statConfig,omitempty"`
	Chart *ChartConfig `json:"chartConfig,omitempty"`
	List  *ListConfig  `json:"listConfig,omitempty"`
	Alert *AlertConfig `json:"alertConfig,omitempty"`
}

// ClientOnly widgets carry their own logic and never fetch.
func (d Definition) ClientOnly() bool { return d.APIPath == "" }

// Validate checks enum fields and that exactly the config matching the
// renderer type is populated.
func (d Definition) Validate() error {
	if d.ID == "" {
		return errors.New("widget definition has empty id")
	}
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("widget %q: "+format, append([]any{d.ID}, args...)...))
	}

	switch d.Category {
	case CategoryPersonal, CategoryTeam, CategoryDept, CategoryCompany:
	default:
		fail("unknown category %q", d.Category)
	}
	if !d.MinRole.Valid() {
		fail("unknown minRole %q", d.MinRole)
	}
	if !d.Size.Valid() {
		fail("unknown size %q", d.Size)
	}

	populated := 0
	for _, set := range []bool{d.Stat != nil, d.Chart != nil, d.List != nil, d.Alert != nil} {
		if set {
			populated++
		}
	}

	switch d.RendererType {
	case RendererStat:
		if d.Stat == nil {
			fail("stat renderer requires statConfig")
		} else {
			if d.Stat.ValueKey == "" {
				fail("statConfig.valueKey is required")
			}
			switch d.Stat.Format {
			case FormatNumber, FormatPercent, FormatDays:
			default:
				fail("unknown stat format %q", d.Stat.Format)
			}
		}
	case RendererChart:
		if d.Chart == nil {
			fail("chart renderer requires chartConfig")
		} else {
			switch d.Chart.ChartType {
			case ChartBar, ChartLine, ChartPie, ChartArea:
			default:
				fail("unknown chart type %q", d.Chart.ChartType)
			}
			if d.Chart.DataKey == "" {
				fail("chartConfig.dataKey is required")
			}
		}
	case RendererList:
		if d.List == nil {
			fail("list renderer requires listConfig")
		} else {
			if len(d.List.Columns) == 0 {
				fail("listConfig.columns must not be empty")
			}
			for _, c := range d.List.Columns {
				if c.Key == "" {
					fail("list column with empty key")
				}
				switch c.Format {
				case "", ColumnText, ColumnDate, ColumnStatus, ColumnNumber:
				default:
					fail("unknown column format %q", c.Format)
				}
			}
			if d.List.MaxItems < 0 {
				fail("listConfig.maxItems must not be negative")
			}
		}
	case RendererAlert:
		if d.Alert == nil {
			fail("alert renderer requires alertConfig")
		} else if d.Alert.CheckKey == "" {
			fail("alertConfig.checkKey is required")
		}
	case RendererCalendar, RendererCustom:
	default:
		fail("unknown renderer type %q", d.RendererType)
	}

	expected := 1
	if d.RendererType == RendererCalendar || d.RendererType == RendererCustom {
		expected = 0
	}
	if populated != expected {
		fail("expected %d renderer config(s) for %s, found %d", expected, d.RendererType, populated)
	}

	return errors.Join(problems...)
}

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}
