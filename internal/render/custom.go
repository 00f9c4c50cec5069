package render

import (
	"context"

	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
)

type QuickAction struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Icon  string `json:"icon"`
}

var quickActions = []QuickAction{
	{Label: "업무보고 작성", Href: "/daily-report/new", Icon: "pencil"},
	{Label: "휴가 신청", Href: "/vacation/request", Icon: "plane"},
	{Label: "회의실 예약", Href: "/reservations/rooms", Icon: "door-open"},
	{Label: "차량 예약", Href: "/reservations/vehicles", Icon: "car"},
}

// ExecutiveBrief is the CEO summary card.
type ExecutiveBrief struct {
	Headline   string   `json:"headline"`
	Highlights []string `json:"highlights"`
	Risks      []string `json:"risks"`
	AsOf       string   `json:"asOf,omitempty"`
}

// BuiltinCustom returns the handlers for the compiled custom widgets.
func BuiltinCustom() map[string]CustomFunc {
	return map[string]CustomFunc{
		widgets.WidgetQuickActions:   renderQuickActions,
		widgets.WidgetExecutiveBrief: renderExecutiveBrief,
	}
}

func renderQuickActions(_ context.Context, _ widgets.Definition, _ any) any {
	out := make([]QuickAction, len(quickActions))
	copy(out, quickActions)
	return out
}

func renderExecutiveBrief(_ context.Context, _ widgets.Definition, data any) any {
	brief := ExecutiveBrief{Headline: missing, Highlights: []string{}, Risks: []string{}}
	if v, ok := GetNestedValue(data, "headline"); ok && v != nil {
		brief.Headline = formatScalar(v)
	}
	if v, ok := GetNestedValue(data, "asOf"); ok && v != nil {
		brief.AsOf = formatScalar(v)
	}
	if v, ok := GetNestedValue(data, "highlights"); ok {
		for _, h := range asArray(v) {
			brief.Highlights = append(brief.Highlights, formatScalar(h))
		}
	}
	if v, ok := GetNestedValue(data, "risks"); ok {
		for _, h := range asArray(v) {
			brief.Risks = append(brief.Risks, formatScalar(h))
		}
	}
	return brief
}

func asArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}
