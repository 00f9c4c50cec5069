package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
)

// missing is shown for absent values.
const missing = "-"

// GetNestedValue walks a dotted path through nested objects. Any missing
// key or non-object on the way yields (nil, false).
func GetNestedValue(data any, path string) (any, bool) {
	if path == "" {
		return data, data != nil
	}
	cur := data
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// pickArray returns data itself when it is an array, else the first of
// paths that resolves to one.
func pickArray(data any, paths ...string) []any {
	if arr, ok := data.([]any); ok {
		return arr
	}
	for _, p := range paths {
		if v, ok := GetNestedValue(data, p); ok {
			if arr, ok := v.([]any); ok {
				return arr
			}
		}
	}
	return nil
}

func objects(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func firstString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := item[k]; ok && v != nil {
			return formatScalar(v)
		}
	}
	return ""
}

func formatStat(v any, format string) string {
	s := formatNumber(v)
	switch format {
	case widgets.FormatPercent:
		return s + "%"
	case widgets.FormatDays:
		return s + "일"
	default:
		return s
	}
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case json.Number:
		return n.String()
	default:
		return formatScalar(v)
	}
}

func formatScalar(v any) string {
	switch s := v.(type) {
	case nil:
		return missing
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64, float32, int, int64, json.Number:
		return formatNumber(v)
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprint(v)
	}
}

// truthy follows the loose truthiness the dashboard API relies on: nil,
// false, zero, and the empty string are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

var badges = map[string]dto.Badge{
	"PENDING":   {Label: "대기", Color: "yellow"},
	"APPROVED":  {Label: "승인", Color: "green"},
	"REJECTED":  {Label: "반려", Color: "red"},
	"CANCELLED": {Label: "취소", Color: "gray"},
	"SUBMITTED": {Label: "제출", Color: "blue"},
	"DRAFT":     {Label: "작성중", Color: "gray"},
}

func statusBadge(status string) dto.Badge {
	if b, ok := badges[strings.ToUpper(status)]; ok {
		return b
	}
	return dto.Badge{Label: status, Color: "gray"}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// relativeDate renders dates within a week of today as relative Korean
// text and anything further out as 2006.01.02. Unparseable values are
// returned unchanged.
func (r *Renderer) relativeDate(v any) string {
	raw := formatScalar(v)
	var t time.Time
	parsed := false
	for _, layout := range dateLayouts {
		if p, err := time.ParseInLocation(layout, raw, r.loc); err == nil {
			t, parsed = p.In(r.loc), true
			break
		}
	}
	if !parsed {
		return raw
	}

	now := r.clockNow().In(r.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.loc)
	diff := int(day.Sub(today).Round(24*time.Hour) / (24 * time.Hour))

	switch {
	case diff == 0:
		return "오늘"
	case diff == 1:
		return "내일"
	case diff == -1:
		return "어제"
	case diff > 1 && diff <= 7:
		return fmt.Sprintf("%d일 후", diff)
	case diff < -1 && diff >= -7:
		return fmt.Sprintf("%d일 전", -diff)
	default:
		return t.Format("2006.01.02")
	}
}
