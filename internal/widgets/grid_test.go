package widgets

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/internal/models"
)

func testRegistry() *Registry {
	def := func(id string, role Role) Definition {
		return Definition{ID: id, Title: id, Category: CategoryPersonal, MinRole: role, Size: SizeSmall, RendererType: RendererCalendar}
	}
	return NewRegistry([]Definition{
		def("A", RoleMember),
		def("B", RoleMember),
		def("C", RoleMember),
		def("D", RoleMember),
		def("LEAD", RoleTeamLeader),
		def("CEO", RoleCEO),
	})
}

func gridIDs(grid []GridEntry) []string {
	ids := make([]string, len(grid))
	for i, e := range grid {
		ids[i] = e.Definition.ID
	}
	return ids
}

func TestBuildGridFiltersSortsAndDrops(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{
		{ID: "C", Enabled: true, Order: 2},
		{ID: "A", Enabled: true, Order: 0},
		{ID: "retired", Enabled: true, Order: 1},
		{ID: "B", Enabled: false, Order: 1},
		{ID: "LEAD", Enabled: true, Order: 1},
		{ID: "D", Enabled: true, Order: 3},
	}

	assert.Equal(t, []string{"A", "C", "D"}, gridIDs(BuildGrid(reg, prefs, RoleMember)))
	assert.Equal(t, []string{"A", "LEAD", "C", "D"}, gridIDs(BuildGrid(reg, prefs, RoleTeamLeader)))
	assert.Empty(t, BuildGrid(reg, prefs, Role("GUEST")))
}

func TestBuildGridTiesKeepArrayPosition(t *testing.T) {
	prefs := []models.WidgetPreference{
		{ID: "B", Enabled: true, Order: 1},
		{ID: "A", Enabled: true, Order: 1},
		{ID: "C", Enabled: true, Order: 0},
	}
	assert.Equal(t, []string{"C", "B", "A"}, gridIDs(BuildGrid(testRegistry(), prefs, RoleMember)))
}

func TestBuildGridSizeOverride(t *testing.T) {
	prefs := []models.WidgetPreference{
		{ID: "A", Enabled: true, Order: 0, Size: "large"},
		{ID: "B", Enabled: true, Order: 1, Size: "gigantic"},
	}
	grid := BuildGrid(testRegistry(), prefs, RoleMember)
	require.Len(t, grid, 2)
	assert.Equal(t, SizeLarge, grid[0].Size)
	assert.Equal(t, SizeSmall, grid[1].Size, "invalid override falls back to the registry default")
}

func TestDisablingDoesNotTouchOtherOrders(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{
		{ID: "A", Enabled: true, Order: 0},
		{ID: "B", Enabled: true, Order: 1},
		{ID: "C", Enabled: true, Order: 2},
	}
	out, changed, err := SetEnabled(reg, prefs, RoleMember, "B", false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"A", "C"}, gridIDs(BuildGrid(reg, out, RoleMember)))
	assert.Equal(t, 0, out[0].Order)
	assert.Equal(t, 2, out[2].Order)
	assert.True(t, prefs[1].Enabled, "input must not be mutated")
}

func TestReorderMovesAndPersistsSequence(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{
		{ID: "A", Enabled: true, Order: 0},
		{ID: "B", Enabled: true, Order: 1},
		{ID: "C", Enabled: true, Order: 2},
		{ID: "D", Enabled: true, Order: 3},
	}

	out, changed := Reorder(reg, prefs, RoleMember, "C", "A")
	require.True(t, changed)
	assert.Equal(t, []string{"C", "A", "B", "D"}, gridIDs(BuildGrid(reg, out, RoleMember)))

	enabled := make([]models.WidgetPreference, 0, len(out))
	for _, p := range out {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool { return enabled[i].Order < enabled[j].Order })
	var seq []string
	for _, p := range enabled {
		seq = append(seq, p.ID)
	}
	assert.Equal(t, []string{"C", "A", "B", "D"}, seq)
	assert.Equal(t, 2, prefs[2].Order, "input must not be mutated")
}

func TestReorderMoveDown(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{
		{ID: "A", Enabled: true, Order: 0},
		{ID: "B", Enabled: true, Order: 1},
		{ID: "C", Enabled: true, Order: 2},
	}
	out, changed := Reorder(reg, prefs, RoleMember, "A", "C")
	require.True(t, changed)
	assert.Equal(t, []string{"B", "C", "A"}, gridIDs(BuildGrid(reg, out, RoleMember)))
}

func TestReorderKeepsHiddenOrders(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{
		{ID: "A", Enabled: true, Order: 0},
		{ID: "B", Enabled: false, Order: 7},
		{ID: "LEAD", Enabled: true, Order: 9},
		{ID: "C", Enabled: true, Order: 2},
	}
	out, changed := Reorder(reg, prefs, RoleMember, "C", "A")
	require.True(t, changed)
	assert.Equal(t, 1, out[0].Order)
	assert.Equal(t, 7, out[1].Order)
	assert.Equal(t, 9, out[2].Order)
	assert.Equal(t, 0, out[3].Order)
}

func TestReorderNoOps(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{
		{ID: "A", Enabled: true, Order: 0},
		{ID: "B", Enabled: true, Order: 1},
		{ID: "C", Enabled: false, Order: 2},
	}
	cases := [][2]string{
		{"A", "A"},
		{"missing", "A"},
		{"A", "missing"},
		{"C", "A"},
		{"LEAD", "A"},
	}
	for _, c := range cases {
		out, changed := Reorder(reg, prefs, RoleMember, c[0], c[1])
		assert.False(t, changed, "%v", c)
		assert.Equal(t, prefs, out)
	}
}

func TestCycleSizeReturnsAfterThreeSteps(t *testing.T) {
	for _, start := range []Size{SizeSmall, SizeMedium, SizeLarge} {
		s := start
		for i := 0; i < 3; i++ {
			s = CycleSize(s)
		}
		assert.Equal(t, start, s)
	}
	assert.Equal(t, SizeMedium, CycleSize(SizeSmall))
	assert.Equal(t, SizeLarge, CycleSize(SizeMedium))
	assert.Equal(t, SizeSmall, CycleSize(SizeLarge))
}

func TestResizeThreeTimesRestoresSize(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{{ID: "A", Enabled: true, Order: 0}}

	var size Size
	var err error
	out := prefs
	seen := []Size{}
	for i := 0; i < 3; i++ {
		out, size, err = Resize(reg, out, RoleMember, "A")
		require.NoError(t, err)
		seen = append(seen, size)
	}
	assert.Equal(t, []Size{SizeMedium, SizeLarge, SizeSmall}, seen)
	assert.Equal(t, SizeSmall, BuildGrid(reg, out, RoleMember)[0].Size)
}

func TestResizeErrors(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{{ID: "A", Enabled: true, Order: 0}}

	_, _, err := Resize(reg, prefs, RoleMember, "nope")
	var nf *errs.NotFoundError
	assert.True(t, errors.As(err, &nf))

	_, _, err = Resize(reg, prefs, RoleMember, "CEO")
	var fb *errs.ForbiddenError
	assert.True(t, errors.As(err, &fb))

	_, _, err = Resize(reg, prefs, RoleMember, "B")
	assert.True(t, errors.As(err, &nf), "widget without a preference record")
}

func TestSetEnabledAppendsMissingWidget(t *testing.T) {
	reg := testRegistry()
	prefs := []models.WidgetPreference{
		{ID: "A", Enabled: true, Order: 0},
		{ID: "B", Enabled: false, Order: 4},
	}
	out, changed, err := SetEnabled(reg, prefs, RoleMember, "D", true)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, out, 3)
	assert.Equal(t, models.WidgetPreference{ID: "D", Enabled: true, Order: 5}, out[2])

	out, changed, err = SetEnabled(reg, prefs, RoleMember, "A", true)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, prefs, out)

	_, _, err = SetEnabled(reg, prefs, RoleMember, "LEAD", true)
	var fb *errs.ForbiddenError
	assert.True(t, errors.As(err, &fb))
}
