// Package render turns fetched widget payloads into view models. Dispatch
// is on the definition's renderer type; custom widgets go through a table
// of handlers keyed by widget id.
package render

import (
	"context"
	"time"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
	"github.com/GregMSThompson/owms-dashboard/pkg/logger"
)

// CustomFunc renders a custom widget. data is nil for client-only widgets.
type CustomFunc func(ctx context.Context, def widgets.Definition, data any) any

type Renderer struct {
	custom   map[string]CustomFunc
	loc      *time.Location
	clockNow func() time.Time
}

// New builds a renderer. loc is the zone relative dates are computed in;
// custom may be nil.
func New(loc *time.Location, custom map[string]CustomFunc) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	table := make(map[string]CustomFunc, len(custom))
	for id, fn := range custom {
		table[id] = fn
	}
	return &Renderer{custom: table, loc: loc, clockNow: time.Now}
}

// HasCustom reports whether a custom handler is registered for id.
func (r *Renderer) HasCustom(id string) bool {
	_, ok := r.custom[id]
	return ok
}

func (r *Renderer) Render(ctx context.Context, def widgets.Definition, data any) dto.WidgetBody {
	switch def.RendererType {
	case widgets.RendererStat:
		return dto.WidgetBody{Kind: dto.BodyStat, Stat: r.stat(def.Stat, data)}
	case widgets.RendererChart:
		return dto.WidgetBody{Kind: dto.BodyChart, Chart: r.chart(def.Chart, data)}
	case widgets.RendererList:
		return dto.WidgetBody{Kind: dto.BodyList, List: r.list(def.List, data)}
	case widgets.RendererAlert:
		return dto.WidgetBody{Kind: dto.BodyAlert, Alert: r.alert(def.Alert, data)}
	case widgets.RendererCalendar:
		return dto.WidgetBody{Kind: dto.BodyCalendar, Calendar: r.calendar(data)}
	case widgets.RendererCustom:
		fn, ok := r.custom[def.ID]
		if !ok {
			logger.FromContext(ctx).Warn("no custom renderer registered", "widget_id", def.ID)
			return placeholder("준비 중인 위젯입니다")
		}
		return dto.WidgetBody{Kind: dto.BodyCustom, Custom: &dto.CustomView{Data: fn(ctx, def, data)}}
	default:
		logger.FromContext(ctx).Warn("unknown renderer type", "widget_id", def.ID, "renderer_type", def.RendererType)
		return placeholder("지원하지 않는 위젯입니다")
	}
}

func placeholder(msg string) dto.WidgetBody {
	return dto.WidgetBody{Kind: dto.BodyPlaceholder, Placeholder: &dto.PlaceholderView{Message: msg}}
}

func (r *Renderer) stat(cfg *widgets.StatConfig, data any) *dto.StatView {
	if cfg == nil {
		return &dto.StatView{Value: missing}
	}
	view := &dto.StatView{Icon: cfg.Icon, Color: cfg.Color, Value: missing}
	if v, ok := GetNestedValue(data, cfg.ValueKey); ok && v != nil {
		view.Value = formatStat(v, cfg.Format)
	}
	if cfg.LabelKey != "" {
		if v, ok := GetNestedValue(data, cfg.LabelKey); ok && v != nil {
			view.Label = formatScalar(v)
		}
	}
	return view
}

func (r *Renderer) chart(cfg *widgets.ChartConfig, data any) *dto.ChartView {
	view := &dto.ChartView{Points: objects(pickArray(data, "data", "stats"))}
	if cfg != nil {
		view.ChartType = cfg.ChartType
		view.DataKey = cfg.DataKey
		view.CategoryKey = cfg.CategoryKey
		view.Stacked = cfg.Stacked
		view.Height = cfg.Height
	}
	return view
}

func (r *Renderer) list(cfg *widgets.ListConfig, data any) *dto.ListView {
	if cfg == nil {
		return &dto.ListView{Empty: true}
	}
	items := objects(pickArray(data, "data", "items", "stats.nextWeekPlans"))
	if cfg.MaxItems > 0 && len(items) > cfg.MaxItems {
		items = items[:cfg.MaxItems]
	}

	view := &dto.ListView{
		Columns:      make([]dto.ListHeader, len(cfg.Columns)),
		Rows:         make([]dto.ListRow, 0, len(items)),
		Empty:        len(items) == 0,
		EmptyMessage: cfg.EmptyMessage,
		LinkTo:       cfg.LinkTo,
	}
	for i, c := range cfg.Columns {
		view.Columns[i] = dto.ListHeader{Key: c.Key, Label: c.Label}
	}
	for _, item := range items {
		row := dto.ListRow{Cells: make([]dto.Cell, len(cfg.Columns))}
		for i, c := range cfg.Columns {
			row.Cells[i] = r.cell(c, item)
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

func (r *Renderer) cell(col widgets.ListColumn, item map[string]any) dto.Cell {
	v, ok := GetNestedValue(item, col.Key)
	if !ok || v == nil {
		return dto.Cell{Text: missing}
	}
	switch col.Format {
	case widgets.ColumnDate:
		return dto.Cell{Text: r.relativeDate(v)}
	case widgets.ColumnStatus:
		b := statusBadge(formatScalar(v))
		return dto.Cell{Text: b.Label, Badge: &b}
	case widgets.ColumnNumber:
		return dto.Cell{Text: formatNumber(v)}
	default:
		return dto.Cell{Text: formatScalar(v)}
	}
}

func (r *Renderer) alert(cfg *widgets.AlertConfig, data any) *dto.AlertView {
	if cfg == nil {
		return &dto.AlertView{}
	}
	v, _ := GetNestedValue(data, cfg.CheckKey)
	if truthy(v) {
		return &dto.AlertView{OK: true, Message: cfg.OKMessage, Icon: cfg.Icon}
	}
	return &dto.AlertView{OK: false, Message: cfg.WarnMessage, Icon: cfg.Icon}
}

func (r *Renderer) calendar(data any) *dto.CalendarView {
	items := objects(pickArray(data, "data", "events"))
	view := &dto.CalendarView{Events: make([]dto.CalendarEvent, 0, len(items))}
	for _, item := range items {
		view.Events = append(view.Events, dto.CalendarEvent{
			ID:    firstString(item, "id"),
			Title: firstString(item, "title", "name", "userName"),
			Start: firstString(item, "start", "startDate"),
			End:   firstString(item, "end", "endDate"),
			Type:  firstString(item, "type"),
		})
	}
	return view
}
