package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/model"
	"smartschool/backend/internal/repository"
)

// ExportService 报表导出服务：班级报表 xlsx 与班级场次日历 ics
type ExportService interface {
	ClassReportXLSX(ctx context.Context, p model.Principal, classID string, q *dto.ClassReportQuery) ([]byte, string, error)
	ClassCalendarICS(ctx context.Context, p model.Principal, classID string) (string, string, error)
}

type exportService struct {
	report ReportService
	repo   *repository.Repository
	perm   *PermissionEvaluator
	logger *zap.Logger
}

// NewExportService 创建导出服务
func NewExportService(report ReportService, repo *repository.Repository, perm *PermissionEvaluator, logger *zap.Logger) ExportService {
	return &exportService{report: report, repo: repo, perm: perm, logger: logger}
}

func (s *exportService) ClassReportXLSX(ctx context.Context, p model.Principal, classID string, q *dto.ClassReportQuery) ([]byte, string, error) {
	report, err := s.report.ClassReport(ctx, p, classID, q)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "出勤报表"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"学生", "总天数", "出勤", "缺勤", "迟到", "请假", "半天", "其他", "出勤率(%)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}
	for rowIdx, row := range report.Rows {
		values := []interface{}{
			row.StudentName,
			row.TotalDays,
			row.PresentDays,
			row.AbsentDays,
			row.LateDays,
			row.ExcusedDays,
			row.HalfDays,
			row.OtherDays,
			row.AttendanceRate,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", report.ClassName, time.Now().Format("20060102"))
	s.logger.Info("导出班级出勤报表",
		zap.String("class_id", classID),
		zap.Int("rows", len(report.Rows)))
	return buf.Bytes(), filename, nil
}

func (s *exportService) ClassCalendarICS(ctx context.Context, p model.Principal, classID string) (string, string, error) {
	sessions, err := s.report.ClassSessions(ctx, p, classID)
	if err != nil {
		return "", "", err
	}
	class, err := s.repo.Student.GetClass(ctx, classID)
	if err != nil {
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//smartschool//attendance//CN")

	for i := range sessions {
		session := &sessions[i]
		event := cal.AddEvent(fmt.Sprintf("%s@smartschool", session.SessionID))
		event.SetCreatedTime(session.CreatedAt)
		event.SetDtStampTime(session.CreatedAt)
		event.SetStartAt(sessionClock(session.SessionDate, session.StartTime))
		event.SetEndAt(sessionClock(session.SessionDate, session.EndTime))
		event.SetSummary(session.Name)
		event.SetLocation(class.Name)
		event.SetDescription(fmt.Sprintf("状态: %s", session.Status))
	}

	filename := fmt.Sprintf("sessions_%s.ics", class.Name)
	return cal.Serialize(), filename, nil
}

// sessionClock 将日期与 "HH:MM" 组合为具体时刻，时间非法时退到当日零点
func sessionClock(date time.Time, hm string) time.Time {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
}
