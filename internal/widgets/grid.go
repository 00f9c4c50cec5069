package widgets

import (
	"sort"

	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/internal/models"
)

// GridEntry is one visible widget with its effective size.
type GridEntry struct {
	Definition Definition
	Preference models.WidgetPreference
	Size       Size
}

// BuildGrid filters prefs to enabled entries, sorts them by order (ties keep
// array position), and drops entries whose definition is missing or whose
// minimum role is above role.
func BuildGrid(reg *Registry, prefs []models.WidgetPreference, role Role) []GridEntry {
	enabled := make([]models.WidgetPreference, 0, len(prefs))
	for _, p := range prefs {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool { return enabled[i].Order < enabled[j].Order })

	grid := make([]GridEntry, 0, len(enabled))
	for _, p := range enabled {
		def, ok := reg.Get(p.ID)
		if !ok || !HasPermission(role, def.MinRole) {
			continue
		}
		grid = append(grid, GridEntry{Definition: def, Preference: p, Size: EffectiveSize(def, p)})
	}
	return grid
}

// EffectiveSize is the preference override when valid, else the registry
// default.
func EffectiveSize(def Definition, pref models.WidgetPreference) Size {
	if s := Size(pref.Size); s.Valid() {
		return s
	}
	return def.Size
}

// CycleSize advances small → medium → large → small. Unknown sizes restart
// the cycle at small.
func CycleSize(s Size) Size {
	switch s {
	case SizeSmall:
		return SizeMedium
	case SizeMedium:
		return SizeLarge
	default:
		return SizeSmall
	}
}

// Reorder applies a drag of activeID onto overID within the visible grid.
// Visible preferences get their order re-derived from the new position;
// hidden ones keep theirs. It reports false, with an unchanged copy, when
// either id is not visible or both are the same.
func Reorder(reg *Registry, prefs []models.WidgetPreference, role Role, activeID, overID string) ([]models.WidgetPreference, bool) {
	out := clonePrefs(prefs)

	grid := BuildGrid(reg, prefs, role)
	ids := make([]string, len(grid))
	for i, e := range grid {
		ids[i] = e.Definition.ID
	}

	oldIndex, newIndex := indexOf(ids, activeID), indexOf(ids, overID)
	if oldIndex < 0 || newIndex < 0 || oldIndex == newIndex {
		return out, false
	}

	moved := arrayMove(ids, oldIndex, newIndex)
	for i := range out {
		if pos := indexOf(moved, out[i].ID); pos >= 0 {
			out[i].Order = pos
		}
	}
	return out, true
}

// Resize cycles the effective size of widget id and stores it as an
// override on its preference record.
func Resize(reg *Registry, prefs []models.WidgetPreference, role Role, id string) ([]models.WidgetPreference, Size, error) {
	def, err := permitted(reg, role, id)
	if err != nil {
		return nil, "", err
	}
	out := clonePrefs(prefs)
	i := indexOfPref(out, id)
	if i < 0 {
		return nil, "", errs.NewNotFoundError("widget is not on the dashboard: " + id)
	}
	next := CycleSize(EffectiveSize(def, out[i]))
	out[i].Size = string(next)
	return out, next, nil
}

// SetEnabled shows or hides widget id. A permitted widget without a
// preference record is appended after the current maximum order.
func SetEnabled(reg *Registry, prefs []models.WidgetPreference, role Role, id string, enabled bool) ([]models.WidgetPreference, bool, error) {
	if _, err := permitted(reg, role, id); err != nil {
		return nil, false, err
	}
	out := clonePrefs(prefs)
	if i := indexOfPref(out, id); i >= 0 {
		if out[i].Enabled == enabled {
			return out, false, nil
		}
		out[i].Enabled = enabled
		return out, true, nil
	}
	if !enabled {
		return out, false, nil
	}
	order := 0
	for _, p := range out {
		if p.Order >= order {
			order = p.Order + 1
		}
	}
	return append(out, models.WidgetPreference{ID: id, Enabled: true, Order: order}), true, nil
}

// --- Helpers ---

func permitted(reg *Registry, role Role, id string) (Definition, error) {
	def, ok := reg.Get(id)
	if !ok {
		return Definition{}, errs.NewNotFoundError("unknown widget: " + id)
	}
	if !HasPermission(role, def.MinRole) {
		return Definition{}, errs.NewForbiddenError("widget requires role " + string(def.MinRole))
	}
	return def, nil
}

func arrayMove(ids []string, from, to int) []string {
	out := make([]string, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)
	out = append(out[:to], append([]string{ids[from]}, out[to:]...)...)
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func indexOfPref(prefs []models.WidgetPreference, id string) int {
	for i, p := range prefs {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func clonePrefs(prefs []models.WidgetPreference) []models.WidgetPreference {
	out := make([]models.WidgetPreference, len(prefs))
	copy(out, prefs)
	return out
}
