package widgets

import "github.com/GregMSThompson/owms-dashboard/internal/models"

var memberPreset = []string{
	WidgetTodayReportCheck,
	WidgetVacationBalance,
	WidgetReportRate,
	WidgetMyReports,
	WidgetNoticeBoard,
	WidgetMyReservations,
	WidgetQuickActions,
}

var presetIDs = map[Role][]string{
	RoleMember: memberPreset,
	RoleTeamLeader: {
		WidgetTodayReportCheck,
		WidgetTeamApprovals,
		WidgetTeamReportStatus,
		WidgetVacationBalance,
		WidgetNoticeBoard,
		WidgetVacationCalendar,
		WidgetQuickActions,
	},
	RoleDeptHead: {
		WidgetDeptAttendanceRate,
		WidgetTeamApprovals,
		WidgetDeptReportTrend,
		WidgetTeamReportStatus,
		WidgetNoticeBoard,
	},
	RoleExecutive: {
		WidgetCompanyHeadcount,
		WidgetDeptAttendanceRate,
		WidgetCompanyVacation,
		WidgetDeptReportTrend,
		WidgetNoticeBoard,
	},
	RoleCEO: {
		WidgetExecutiveBrief,
		WidgetCompanyHeadcount,
		WidgetCompanyVacation,
		WidgetDeptReportTrend,
		WidgetNoticeBoard,
	},
}

// PresetIDs returns the enabled widget ids of a role's default layout, in
// display order.
func PresetIDs(role Role) []string {
	ids := presetIDs[role]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Preset builds the default layout for role: preset widgets enabled in
// preset order, then every other widget the role may see, disabled.
func Preset(reg *Registry, role Role) []models.WidgetPreference {
	layout := []models.WidgetPreference{}
	if !role.Valid() {
		return layout
	}

	included := make(map[string]bool)
	for _, id := range presetIDs[role] {
		def, ok := reg.Get(id)
		if !ok || !HasPermission(role, def.MinRole) || included[id] {
			continue
		}
		included[id] = true
		layout = append(layout, models.WidgetPreference{ID: id, Enabled: true, Order: len(layout)})
	}
	for _, def := range reg.VisibleTo(role) {
		if included[def.ID] {
			continue
		}
		included[def.ID] = true
		layout = append(layout, models.WidgetPreference{ID: def.ID, Enabled: false, Order: len(layout)})
	}
	return layout
}
