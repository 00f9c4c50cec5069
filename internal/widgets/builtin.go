package widgets

// Widget ids
const (
	WidgetTodayReportCheck   = "today-report-check"
	WidgetVacationBalance    = "my-vacation-balance"
	WidgetReportRate         = "my-report-rate"
	WidgetMyReports          = "my-daily-reports"
	WidgetMyReservations     = "my-reservations"
	WidgetNoticeBoard        = "notice-board"
	WidgetVacationCalendar   = "vacation-calendar"
	WidgetQuickActions       = "quick-actions"
	WidgetTeamReportStatus   = "team-report-status"
	WidgetTeamApprovals      = "team-pending-approvals"
	WidgetTeamNextWeekPlans  = "team-next-week-plans"
	WidgetDeptAttendanceRate = "dept-attendance-rate"
	WidgetDeptReportTrend    = "dept-report-trend"
	WidgetCompanyHeadcount   = "company-headcount"
	WidgetCompanyVacation    = "company-vacation-usage"
	WidgetExecutiveBrief     = "executive-brief"
)

// Builtin returns the compiled widget catalog.
func Builtin() []Definition {
	return []Definition{
		{
			ID:           WidgetTodayReportCheck,
			Title:        "오늘의 업무보고",
			Description:  "오늘 업무보고 제출 여부",
			Category:     CategoryPersonal,
			MinRole:      RoleMember,
			Size:         SizeSmall,
			RendererType: RendererAlert,
			APIPath:      "/daily-report/today/status",
			Alert: &AlertConfig{
				CheckKey:    "submitted",
				OKMessage:   "오늘 업무보고를 제출했습니다",
				WarnMessage: "오늘 업무보고가 아직 제출되지 않았습니다",
				Icon:        "clipboard-check",
			},
		},
		{
			ID:           WidgetVacationBalance,
			Title:        "잔여 연차",
			Category:     CategoryPersonal,
			MinRole:      RoleMember,
			Size:         SizeSmall,
			RendererType: RendererStat,
			APIPath:      "/vacation/balance",
			Stat: &StatConfig{
				Icon:     "calendar-days",
				Color:    "blue",
				ValueKey: "remainingDays",
				LabelKey: "summary.label",
				Format:   FormatDays,
			},
		},
		{
			ID:           WidgetReportRate,
			Title:        "이번 달 보고 제출률",
			Category:     CategoryPersonal,
			MinRole:      RoleMember,
			Size:         SizeSmall,
			RendererType: RendererStat,
			APIPath:      "/daily-report/stats/me?period=month",
			Stat: &StatConfig{
				Icon:     "chart-pie",
				Color:    "green",
				ValueKey: "stats.submissionRate",
				LabelKey: "stats.trend",
				Format:   FormatPercent,
			},
		},
		{
			ID:           WidgetMyReports,
			Title:        "최근 업무보고",
			Category:     CategoryPersonal,
			MinRole:      RoleMember,
			Size:         SizeMedium,
			RendererType: RendererList,
			APIPath:      "/daily-report/my?limit=5",
			List: &ListConfig{
				Columns: []ListColumn{
					{Key: "reportDate", Label: "날짜", Format: ColumnDate},
					{Key: "summary", Label: "요약", Format: ColumnText},
					{Key: "status", Label: "상태", Format: ColumnStatus},
				},
				EmptyMessage: "작성한 업무보고가 없습니다",
				MaxItems:     5,
				LinkTo:       "/daily-report",
			},
		},
		{
			ID:           WidgetMyReservations,
			Title:        "내 예약 현황",
			Description:  "회의실·차량 예약",
			Category:     CategoryPersonal,
			MinRole:      RoleMember,
			Size:         SizeMedium,
			RendererType: RendererList,
			APIPath:      "/reservations/my?upcoming=true",
			List: &ListConfig{
				Columns: []ListColumn{
					{Key: "resource.name", Label: "자원"},
					{Key: "startAt", Label: "일시", Format: ColumnDate},
					{Key: "status", Label: "상태", Format: ColumnStatus},
				},
				EmptyMessage: "예정된 예약이 없습니다",
				MaxItems:     5,
				LinkTo:       "/reservations",
			},
		},
		{
			ID:           WidgetNoticeBoard,
			Title:        "공지사항",
			Category:     CategoryCompany,
			MinRole:      RoleMember,
			Size:         SizeMedium,
			RendererType: RendererList,
			APIPath:      "/board/notice/posts?limit=5",
			List: &ListConfig{
				Columns: []ListColumn{
					{Key: "title", Label: "제목"},
					{Key: "createdAt", Label: "작성일", Format: ColumnDate},
				},
				EmptyMessage: "등록된 공지사항이 없습니다",
				MaxItems:     5,
				LinkTo:       "/board/notice",
			},
		},
		{
			ID:           WidgetVacationCalendar,
			Title:        "팀 휴가 캘린더",
			Category:     CategoryTeam,
			MinRole:      RoleMember,
			Size:         SizeLarge,
			RendererType: RendererCalendar,
			APIPath:      "/vacation/calendar",
		},
		{
			ID:           WidgetQuickActions,
			Title:        "바로가기",
			Category:     CategoryPersonal,
			MinRole:      RoleMember,
			Size:         SizeSmall,
			RendererType: RendererCustom,
		},
		{
			ID:           WidgetTeamReportStatus,
			Title:        "팀 주간 보고 현황",
			Category:     CategoryTeam,
			MinRole:      RoleTeamLeader,
			Size:         SizeMedium,
			RendererType: RendererChart,
			APIPath:      "/daily-report/team/weekly",
			Chart: &ChartConfig{
				ChartType:   ChartBar,
				DataKey:     "submitted",
				CategoryKey: "name",
				Stacked:     true,
				Height:      240,
			},
		},
		{
			ID:           WidgetTeamApprovals,
			Title:        "결재 대기",
			Category:     CategoryTeam,
			MinRole:      RoleTeamLeader,
			Size:         SizeMedium,
			RendererType: RendererList,
			APIPath:      "/vacation/approvals/pending",
			List: &ListConfig{
				Columns: []ListColumn{
					{Key: "requester.name", Label: "신청자"},
					{Key: "type", Label: "구분"},
					{Key: "startDate", Label: "시작일", Format: ColumnDate},
					{Key: "status", Label: "상태", Format: ColumnStatus},
				},
				EmptyMessage: "대기 중인 결재가 없습니다",
				MaxItems:     5,
				LinkTo:       "/vacation/approvals",
			},
		},
		{
			ID:           WidgetTeamNextWeekPlans,
			Title:        "팀 차주 계획",
			Category:     CategoryTeam,
			MinRole:      RoleTeamLeader,
			Size:         SizeLarge,
			RendererType: RendererList,
			APIPath:      "/weekly-report/team/summary",
			List: &ListConfig{
				Columns: []ListColumn{
					{Key: "memberName", Label: "이름"},
					{Key: "plan", Label: "계획"},
					{Key: "dueDate", Label: "기한", Format: ColumnDate},
				},
				EmptyMessage: "등록된 차주 계획이 없습니다",
				MaxItems:     10,
			},
		},
		{
			ID:           WidgetDeptAttendanceRate,
			Title:        "부서 출근율",
			Category:     CategoryDept,
			MinRole:      RoleDeptHead,
			Size:         SizeSmall,
			RendererType: RendererStat,
			APIPath:      "/attendance/dept/stats",
			Stat: &StatConfig{
				Icon:     "building",
				Color:    "purple",
				ValueKey: "stats.attendanceRate",
				LabelKey: "stats.comparedToLastWeek",
				Format:   FormatPercent,
			},
		},
		{
			ID:           WidgetDeptReportTrend,
			Title:        "부서 보고 추이",
			Category:     CategoryDept,
			MinRole:      RoleDeptHead,
			Size:         SizeLarge,
			RendererType: RendererChart,
			APIPath:      "/daily-report/dept/trend",
			Chart: &ChartConfig{
				ChartType:   ChartLine,
				DataKey:     "count",
				CategoryKey: "date",
				Height:      280,
			},
		},
		{
			ID:           WidgetCompanyHeadcount,
			Title:        "전사 인원",
			Category:     CategoryCompany,
			MinRole:      RoleExecutive,
			Size:         SizeSmall,
			RendererType: RendererStat,
			APIPath:      "/organization/stats",
			Stat: &StatConfig{
				Icon:     "users",
				Color:    "orange",
				ValueKey: "totalEmployees",
				Format:   FormatNumber,
			},
		},
		{
			ID:           WidgetCompanyVacation,
			Title:        "부서별 휴가 사용",
			Category:     CategoryCompany,
			MinRole:      RoleExecutive,
			Size:         SizeMedium,
			RendererType: RendererChart,
			APIPath:      "/vacation/company/usage",
			Chart: &ChartConfig{
				ChartType:   ChartPie,
				DataKey:     "usedDays",
				CategoryKey: "department",
			},
		},
		{
			ID:           WidgetExecutiveBrief,
			Title:        "경영 브리핑",
			Category:     CategoryCompany,
			MinRole:      RoleCEO,
			Size:         SizeLarge,
			RendererType: RendererCustom,
			APIPath:      "/dashboard/executive/brief",
		},
	}
}
