package repository

import (
	"context"

	"gorm.io/gorm"
)

// SummaryRow 月度汇总扫描行
type SummaryRow struct {
	MonthYear   string `gorm:"column:month_year"`
	TotalDays   int    `gorm:"column:total_days"`
	PresentDays int    `gorm:"column:present_days"`
	AbsentDays  int    `gorm:"column:absent_days"`
	LateDays    int    `gorm:"column:late_days"`
	ExcusedDays int    `gorm:"column:excused_days"`
	HalfDays    int    `gorm:"column:half_days"`
	OtherDays   int    `gorm:"column:other_days"`
}

// ClassReportScanRow 班级报表扫描行
type ClassReportScanRow struct {
	StudentID   string `gorm:"column:student_id"`
	StudentName string `gorm:"column:student_name"`
	TotalDays   int    `gorm:"column:total_days"`
	PresentDays int    `gorm:"column:present_days"`
	AbsentDays  int    `gorm:"column:absent_days"`
	LateDays    int    `gorm:"column:late_days"`
	ExcusedDays int    `gorm:"column:excused_days"`
	HalfDays    int    `gorm:"column:half_days"`
	OtherDays   int    `gorm:"column:other_days"`
}

// DailyScanRow 按日统计扫描行
type DailyScanRow struct {
	Date         string `gorm:"column:date"`
	TotalCount   int    `gorm:"column:total_count"`
	PresentCount int    `gorm:"column:present_count"`
	AbsentCount  int    `gorm:"column:absent_count"`
	LateCount    int    `gorm:"column:late_count"`
	ExcusedCount int    `gorm:"column:excused_count"`
}

// MonthlyScanRow 按月统计扫描行
type MonthlyScanRow struct {
	MonthYear    string `gorm:"column:month_year"`
	TotalCount   int    `gorm:"column:total_count"`
	PresentCount int    `gorm:"column:present_count"`
	AbsentCount  int    `gorm:"column:absent_count"`
	LateCount    int    `gorm:"column:late_count"`
	ExcusedCount int    `gorm:"column:excused_count"`
}

// ReportRepository 统计与报表聚合查询接口，直接走原生 SQL
type ReportRepository interface {
	StudentMonthlySummary(ctx context.Context, studentID, month string) ([]SummaryRow, error)
	ClassReport(ctx context.Context, classID, startDate, endDate string) ([]ClassReportScanRow, error)
	DailyStats(ctx context.Context, startDate, endDate, classID string) ([]DailyScanRow, error)
	MonthlyStats(ctx context.Context, year, classID string) ([]MonthlyScanRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓储
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) StudentMonthlySummary(ctx context.Context, studentID, month string) ([]SummaryRow, error) {
	sql := `
		SELECT to_char(a.attendance_date, 'YYYY-MM')         AS month_year,
		       COUNT(*)                                      AS total_days,
		       COUNT(*) FILTER (WHERE s.code = 'P')          AS present_days,
		       COUNT(*) FILTER (WHERE s.code = 'A')          AS absent_days,
		       COUNT(*) FILTER (WHERE s.code = 'L')          AS late_days,
		       COUNT(*) FILTER (WHERE s.code = 'E')          AS excused_days,
		       COUNT(*) FILTER (WHERE s.code = 'H')          AS half_days,
		       COUNT(*) FILTER (WHERE s.code = 'O')          AS other_days
		FROM attendance a
		JOIN attendance_status s ON s.status_id = a.status_id
		WHERE a.student_id = ?`
	args := []interface{}{studentID}
	if month != "" {
		sql += ` AND to_char(a.attendance_date, 'YYYY-MM') = ?`
		args = append(args, month)
	}
	sql += ` GROUP BY 1 ORDER BY 1 DESC`

	var rows []SummaryRow
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) ClassReport(ctx context.Context, classID, startDate, endDate string) ([]ClassReportScanRow, error) {
	join := `LEFT JOIN attendance a ON a.student_id = st.student_id`
	args := []interface{}{}
	if startDate != "" {
		join += ` AND a.attendance_date >= ?`
		args = append(args, startDate)
	}
	if endDate != "" {
		join += ` AND a.attendance_date <= ?`
		args = append(args, endDate)
	}
	sql := `
		SELECT st.student_id                                 AS student_id,
		       st.first_name || ' ' || st.last_name          AS student_name,
		       COUNT(a.attendance_id)                        AS total_days,
		       COUNT(*) FILTER (WHERE s.code = 'P')          AS present_days,
		       COUNT(*) FILTER (WHERE s.code = 'A')          AS absent_days,
		       COUNT(*) FILTER (WHERE s.code = 'L')          AS late_days,
		       COUNT(*) FILTER (WHERE s.code = 'E')          AS excused_days,
		       COUNT(*) FILTER (WHERE s.code = 'H')          AS half_days,
		       COUNT(*) FILTER (WHERE s.code = 'O')          AS other_days
		FROM students st
		` + join + `
		LEFT JOIN attendance_status s ON s.status_id = a.status_id
		WHERE st.class_id = ?
		GROUP BY st.student_id, student_name
		ORDER BY student_name ASC`
	args = append(args, classID)

	var rows []ClassReportScanRow
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) DailyStats(ctx context.Context, startDate, endDate, classID string) ([]DailyScanRow, error) {
	sql := `
		SELECT to_char(a.attendance_date, 'YYYY-MM-DD')      AS date,
		       COUNT(*)                                      AS total_count,
		       COUNT(*) FILTER (WHERE s.code = 'P')          AS present_count,
		       COUNT(*) FILTER (WHERE s.code = 'A')          AS absent_count,
		       COUNT(*) FILTER (WHERE s.code = 'L')          AS late_count,
		       COUNT(*) FILTER (WHERE s.code = 'E')          AS excused_count
		FROM attendance a
		JOIN attendance_status s ON s.status_id = a.status_id
		WHERE 1=1`
	args := []interface{}{}
	if startDate != "" {
		sql += ` AND a.attendance_date >= ?`
		args = append(args, startDate)
	}
	if endDate != "" {
		sql += ` AND a.attendance_date <= ?`
		args = append(args, endDate)
	}
	if classID != "" {
		sql += ` AND a.class_id = ?`
		args = append(args, classID)
	}
	sql += ` GROUP BY a.attendance_date ORDER BY a.attendance_date DESC`

	var rows []DailyScanRow
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) MonthlyStats(ctx context.Context, year, classID string) ([]MonthlyScanRow, error) {
	sql := `
		SELECT to_char(a.attendance_date, 'YYYY-MM')         AS month_year,
		       COUNT(*)                                      AS total_count,
		       COUNT(*) FILTER (WHERE s.code = 'P')          AS present_count,
		       COUNT(*) FILTER (WHERE s.code = 'A')          AS absent_count,
		       COUNT(*) FILTER (WHERE s.code = 'L')          AS late_count,
		       COUNT(*) FILTER (WHERE s.code = 'E')          AS excused_count
		FROM attendance a
		JOIN attendance_status s ON s.status_id = a.status_id
		WHERE 1=1`
	args := []interface{}{}
	if year != "" {
		sql += ` AND to_char(a.attendance_date, 'YYYY') = ?`
		args = append(args, year)
	}
	if classID != "" {
		sql += ` AND a.class_id = ?`
		args = append(args, classID)
	}
	sql += ` GROUP BY 1 ORDER BY 1 DESC`

	var rows []MonthlyScanRow
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error
	return rows, err
}
