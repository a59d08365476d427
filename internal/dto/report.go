package dto

// ── 统计与报表 ──

// SummaryQuery 学生月度汇总过滤条件
type SummaryQuery struct {
	Month string `form:"month" binding:"omitempty,datetime=2006-01"`
}

// StudentSummaryRow 学生某月的出勤汇总
type StudentSummaryRow struct {
	MonthYear   string `json:"month_year"`
	TotalDays   int    `json:"total_days"`
	PresentDays int    `json:"present_days"`
	AbsentDays  int    `json:"absent_days"`
	LateDays    int    `json:"late_days"`
	ExcusedDays int    `json:"excused_days"`
	HalfDays    int    `json:"half_days"`
	OtherDays   int    `json:"other_days"`
}

// ClassReportQuery 班级报表过滤条件
type ClassReportQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// ClassReportRow 班级报表单个学生行
// AttendanceRate = present/total 四舍五入到整数百分比，total 为 0 时恒为 0
type ClassReportRow struct {
	StudentID      string `json:"student_id"`
	StudentName    string `json:"student_name"`
	TotalDays      int    `json:"total_days"`
	PresentDays    int    `json:"present_days"`
	AbsentDays     int    `json:"absent_days"`
	LateDays       int    `json:"late_days"`
	ExcusedDays    int    `json:"excused_days"`
	HalfDays       int    `json:"half_days"`
	OtherDays      int    `json:"other_days"`
	AttendanceRate int    `json:"attendance_rate"`
}

// ClassReportResponse 班级报表响应
type ClassReportResponse struct {
	ClassID   string           `json:"class_id"`
	ClassName string           `json:"class_name"`
	StartDate string           `json:"start_date,omitempty"`
	EndDate   string           `json:"end_date,omitempty"`
	Rows      []ClassReportRow `json:"rows"`
}

// SessionStatistics 单场次的按状态聚合，出勤率为四舍五入的整数百分比
type SessionStatistics struct {
	TotalStudents  int            `json:"total_students"`
	ByStatus       map[string]int `json:"by_status"`
	AttendanceRate int            `json:"attendance_rate"`
}

// SessionReportResponse 单场次打印视图：场次 + 名册 + 聚合
type SessionReportResponse struct {
	Session    SessionResponse   `json:"session"`
	Records    []RecordResponse  `json:"records"`
	Statistics SessionStatistics `json:"statistics"`
}

// PrintAllQuery 批量打印过滤条件
type PrintAllQuery struct {
	Date      string `form:"date"       binding:"omitempty,datetime=2006-01-02"`
	ClassID   string `form:"class_id"   binding:"omitempty,uuid"`
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
}

// DailyStatsQuery 按日统计过滤条件
type DailyStatsQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	ClassID   string `form:"class_id"   binding:"omitempty,uuid"`
}

// DailyStatsRow 某一天的出勤聚合
type DailyStatsRow struct {
	Date        string `json:"date"`
	TotalCount  int    `json:"total_count"`
	PresentDays int    `json:"present_count"`
	AbsentDays  int    `json:"absent_count"`
	LateDays    int    `json:"late_count"`
	ExcusedDays int    `json:"excused_count"`
}

// MonthlyStatsQuery 按月统计过滤条件
type MonthlyStatsQuery struct {
	Year    string `form:"year"     binding:"omitempty,datetime=2006"`
	ClassID string `form:"class_id" binding:"omitempty,uuid"`
}

// MonthlyStatsRow 某个月的出勤聚合
type MonthlyStatsRow struct {
	MonthYear   string `json:"month_year"`
	TotalCount  int    `json:"total_count"`
	PresentDays int    `json:"present_count"`
	AbsentDays  int    `json:"absent_count"`
	LateDays    int    `json:"late_count"`
	ExcusedDays int    `json:"excused_count"`
}
