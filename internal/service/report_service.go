package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/model"
	"smartschool/backend/internal/repository"
)

// ReportService 统计与报表业务接口
type ReportService interface {
	StudentSummary(ctx context.Context, p model.Principal, studentID, month string) ([]dto.StudentSummaryRow, error)
	ClassReport(ctx context.Context, p model.Principal, classID string, q *dto.ClassReportQuery) (*dto.ClassReportResponse, error)
	SessionReport(ctx context.Context, p model.Principal, sessionID string) (*dto.SessionReportResponse, error)
	PrintAll(ctx context.Context, p model.Principal, q *dto.PrintAllQuery) ([]dto.SessionReportResponse, error)
	DailyStats(ctx context.Context, p model.Principal, q *dto.DailyStatsQuery) ([]dto.DailyStatsRow, error)
	MonthlyStats(ctx context.Context, p model.Principal, q *dto.MonthlyStatsQuery) ([]dto.MonthlyStatsRow, error)
	UserResources(ctx context.Context, p model.Principal) (*dto.UserResourcesResponse, error)
	// ClassSessions 返回主体可见的某班级全部场次，供日历导出使用
	ClassSessions(ctx context.Context, p model.Principal, classID string) ([]model.AttendanceSession, error)
}

type reportService struct {
	repo   *repository.Repository
	perm   *PermissionEvaluator
	logger *zap.Logger
}

// NewReportService 创建报表服务
func NewReportService(repo *repository.Repository, perm *PermissionEvaluator, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, perm: perm, logger: logger}
}

func (s *reportService) StudentSummary(ctx context.Context, p model.Principal, studentID, month string) ([]dto.StudentSummaryRow, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	switch p.Role {
	case model.RoleAdmin:
	case model.RoleTeacher:
		assigned, err := s.perm.assignments.IsTeacherAssigned(ctx, p.TeacherID, student.ClassID, nil)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, ErrForbidden
		}
	case model.RoleClassRep, model.RoleStudent:
		// 班代与学生都只能看自己的汇总
		if p.StudentID != studentID {
			return nil, ErrForbidden
		}
	}

	rows, err := s.repo.Report.StudentMonthlySummary(ctx, studentID, month)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StudentSummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StudentSummaryRow{
			MonthYear:   r.MonthYear,
			TotalDays:   r.TotalDays,
			PresentDays: r.PresentDays,
			AbsentDays:  r.AbsentDays,
			LateDays:    r.LateDays,
			ExcusedDays: r.ExcusedDays,
			HalfDays:    r.HalfDays,
			OtherDays:   r.OtherDays,
		})
	}
	return out, nil
}

func (s *reportService) ClassReport(ctx context.Context, p model.Principal, classID string, q *dto.ClassReportQuery) (*dto.ClassReportResponse, error) {
	class, err := s.repo.Student.GetClass(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	allowed, err := s.perm.CanAccessClass(ctx, p, classID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	rows, err := s.repo.Report.ClassReport(ctx, classID, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	resp := &dto.ClassReportResponse{
		ClassID:   classID,
		ClassName: class.Name,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Rows:      make([]dto.ClassReportRow, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, dto.ClassReportRow{
			StudentID:      r.StudentID,
			StudentName:    r.StudentName,
			TotalDays:      r.TotalDays,
			PresentDays:    r.PresentDays,
			AbsentDays:     r.AbsentDays,
			LateDays:       r.LateDays,
			ExcusedDays:    r.ExcusedDays,
			HalfDays:       r.HalfDays,
			OtherDays:      r.OtherDays,
			AttendanceRate: attendanceRate(r.PresentDays, r.TotalDays),
		})
	}
	return resp, nil
}

func (s *reportService) SessionReport(ctx context.Context, p model.Principal, sessionID string) (*dto.SessionReportResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	allowed, err := s.perm.CanRead(ctx, p, session)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrSessionNotFound
	}
	return s.buildSessionReport(ctx, session)
}

func (s *reportService) PrintAll(ctx context.Context, p model.Principal, q *dto.PrintAllQuery) ([]dto.SessionReportResponse, error) {
	scope, err := s.sessionScope(ctx, p)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.Session.List(ctx, scope, repository.SessionFilter{
		Date:      q.Date,
		ClassID:   q.ClassID,
		SubjectID: q.SubjectID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionReportResponse, 0, len(sessions))
	for i := range sessions {
		report, err := s.buildSessionReport(ctx, &sessions[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *report)
	}
	return out, nil
}

func (s *reportService) DailyStats(ctx context.Context, p model.Principal, q *dto.DailyStatsQuery) ([]dto.DailyStatsRow, error) {
	if err := s.checkStatsScope(ctx, p, q.ClassID); err != nil {
		return nil, err
	}
	rows, err := s.repo.Report.DailyStats(ctx, q.StartDate, q.EndDate, q.ClassID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailyStatsRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DailyStatsRow{
			Date:        r.Date,
			TotalCount:  r.TotalCount,
			PresentDays: r.PresentCount,
			AbsentDays:  r.AbsentCount,
			LateDays:    r.LateCount,
			ExcusedDays: r.ExcusedCount,
		})
	}
	return out, nil
}

func (s *reportService) MonthlyStats(ctx context.Context, p model.Principal, q *dto.MonthlyStatsQuery) ([]dto.MonthlyStatsRow, error) {
	if err := s.checkStatsScope(ctx, p, q.ClassID); err != nil {
		return nil, err
	}
	rows, err := s.repo.Report.MonthlyStats(ctx, q.Year, q.ClassID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MonthlyStatsRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthlyStatsRow{
			MonthYear:   r.MonthYear,
			TotalCount:  r.TotalCount,
			PresentDays: r.PresentCount,
			AbsentDays:  r.AbsentCount,
			LateDays:    r.LateCount,
			ExcusedDays: r.ExcusedCount,
		})
	}
	return out, nil
}

func (s *reportService) UserResources(ctx context.Context, p model.Principal) (*dto.UserResourcesResponse, error) {
	resp := &dto.UserResourcesResponse{
		Role:     p.Role.String(),
		Classes:  []dto.ClassBrief{},
		Subjects: []dto.SubjectBrief{},
	}

	var (
		classes  []model.Class
		subjects []model.Subject
		err      error
	)
	switch p.Role {
	case model.RoleAdmin:
		classes, err = s.repo.Student.ListClasses(ctx)
		if err != nil {
			return nil, err
		}
		subjects, err = s.repo.Student.ListSubjects(ctx)
	case model.RoleTeacher:
		var classIDs, subjectIDs []string
		classIDs, err = s.repo.Assignment.ListTeacherClassIDs(ctx, p.TeacherID)
		if err != nil {
			return nil, err
		}
		classes, err = s.repo.Student.ListClassesByIDs(ctx, classIDs)
		if err != nil {
			return nil, err
		}
		subjectIDs, err = s.repo.Assignment.ListTeacherSubjectIDs(ctx, p.TeacherID)
		if err != nil {
			return nil, err
		}
		subjects, err = s.repo.Student.ListSubjectsByIDs(ctx, subjectIDs)
	case model.RoleClassRep, model.RoleStudent:
		classes, err = s.repo.Student.ListClassesByIDs(ctx, []string{p.ClassID})
		if err != nil {
			return nil, err
		}
		subjects, err = s.repo.Student.ListSubjects(ctx)
	}
	if err != nil {
		return nil, err
	}

	for _, c := range classes {
		resp.Classes = append(resp.Classes, dto.ClassBrief{ID: c.ClassID, Name: c.Name, Letter: c.Letter})
	}
	for _, sub := range subjects {
		resp.Subjects = append(resp.Subjects, dto.SubjectBrief{ID: sub.SubjectID, Name: sub.Name, Letter: sub.Letter})
	}
	return resp, nil
}

func (s *reportService) ClassSessions(ctx context.Context, p model.Principal, classID string) ([]model.AttendanceSession, error) {
	allowed, err := s.perm.CanAccessClass(ctx, p, classID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	return s.repo.Session.List(ctx, repository.SessionScope{All: true}, repository.SessionFilter{ClassID: classID})
}

// ── 内部辅助 ──

// checkStatsScope 校验全局统计入口：管理员不限；教师必须带任教班级过滤；
// 其余角色一律拒绝
func (s *reportService) checkStatsScope(ctx context.Context, p model.Principal, classID string) error {
	switch p.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleTeacher:
		if classID == "" {
			return ErrForbidden
		}
		assigned, err := s.perm.assignments.IsTeacherAssigned(ctx, p.TeacherID, classID, nil)
		if err != nil {
			return err
		}
		if !assigned {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

func (s *reportService) sessionScope(ctx context.Context, p model.Principal) (repository.SessionScope, error) {
	switch p.Role {
	case model.RoleAdmin:
		return repository.SessionScope{All: true}, nil
	case model.RoleTeacher:
		classIDs, err := s.repo.Assignment.ListTeacherClassIDs(ctx, p.TeacherID)
		if err != nil {
			return repository.SessionScope{}, err
		}
		return repository.SessionScope{ClassIDs: classIDs, CreatedBy: p.TeacherID, CreatorRole: model.RoleTeacher}, nil
	case model.RoleClassRep, model.RoleStudent:
		return repository.SessionScope{ClassIDs: []string{p.ClassID}}, nil
	default:
		return repository.SessionScope{ClassIDs: []string{}}, nil
	}
}

func (s *reportService) buildSessionReport(ctx context.Context, session *model.AttendanceSession) (*dto.SessionReportResponse, error) {
	records, err := s.repo.Record.ListBySession(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	report := &dto.SessionReportResponse{
		Session: toSessionResponse(session),
		Records: make([]dto.RecordResponse, 0, len(records)),
		Statistics: dto.SessionStatistics{
			TotalStudents: len(records),
			ByStatus:      map[string]int{},
		},
	}
	for i := range records {
		resp := toRecordResponse(&records[i])
		report.Records = append(report.Records, resp)
		if resp.StatusCode != "" {
			report.Statistics.ByStatus[resp.StatusCode]++
		}
	}
	report.Statistics.AttendanceRate = attendanceRate(
		report.Statistics.ByStatus[model.StatusCodePresent],
		report.Statistics.TotalStudents)
	return report, nil
}

// attendanceRate 出勤率取整百分比，无记录时恒为 0
func attendanceRate(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}
