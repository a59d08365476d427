package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"smartschool/backend/internal/model"
	"smartschool/backend/internal/repository"
	pkgerrors "smartschool/backend/pkg/errors"
)

// ════ 测试用内存仓储 ════

type mockSessionRepo struct {
	sessions map[string]*model.AttendanceSession
	nextID   int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: map[string]*model.AttendanceSession{}}
}

func (m *mockSessionRepo) put(s *model.AttendanceSession) *model.AttendanceSession {
	if s.SessionID == "" {
		m.nextID++
		s.SessionID = fmt.Sprintf("session-%d", m.nextID)
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return &cp
}

func (m *mockSessionRepo) CreateExcludingOverlap(_ context.Context, session *model.AttendanceSession) error {
	for _, existing := range m.sessions {
		if existing.ClassID == session.ClassID &&
			existing.SessionDate.Equal(session.SessionDate) &&
			existing.Overlaps(session.StartTime, session.EndTime) {
			return pkgerrors.ErrSlotConflict
		}
	}
	m.put(session)
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.AttendanceSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSessionRepo) List(_ context.Context, scope repository.SessionScope, filter repository.SessionFilter) ([]model.AttendanceSession, error) {
	var out []model.AttendanceSession
	for _, s := range m.sessions {
		if !scope.All {
			inClass := false
			for _, id := range scope.ClassIDs {
				if s.ClassID == id {
					inClass = true
					break
				}
			}
			ownCreation := scope.CreatedBy != "" &&
				s.CreatedBy == scope.CreatedBy && s.CreatorRole == scope.CreatorRole
			if !inClass && !ownCreation {
				continue
			}
		}
		if filter.Date != "" && s.SessionDate.Format("2006-01-02") != filter.Date {
			continue
		}
		if filter.ClassID != "" && s.ClassID != filter.ClassID {
			continue
		}
		if filter.SubjectID != "" && (s.SubjectID == nil || *s.SubjectID != filter.SubjectID) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSessionRepo) Update(_ context.Context, id string, updates map[string]interface{}) error {
	s, ok := m.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			s.Name = v.(string)
		case "session_date":
			s.SessionDate = v.(time.Time)
		case "subject_id":
			sid := v.(string)
			s.SubjectID = &sid
		case "start_time":
			s.StartTime = v.(string)
		case "end_time":
			s.EndTime = v.(string)
		}
	}
	return nil
}

func (m *mockSessionRepo) UpdateStatus(_ context.Context, id string, status model.SessionStatus) error {
	s, ok := m.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) CloseExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	cutoff := before.Format("2006-01-02")
	for _, s := range m.sessions {
		if s.Status == model.SessionOpen && s.SessionDate.Format("2006-01-02") < cutoff {
			s.Status = model.SessionClosed
			n++
		}
	}
	return n, nil
}

// ────

type mockRecordRepo struct {
	records map[string][]model.AttendanceRecord
	// insertErr 非空时 ReplaceForSession 在插入阶段失败，且不改动已有数据，
	// 模拟数据库事务回滚
	insertErr error
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: map[string][]model.AttendanceRecord{}}
}

func (m *mockRecordRepo) ListBySession(_ context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	return append([]model.AttendanceRecord(nil), m.records[sessionID]...), nil
}

func (m *mockRecordRepo) ReplaceForSession(_ context.Context, sessionID string, records []model.AttendanceRecord) error {
	if m.insertErr != nil && len(records) > 0 {
		return m.insertErr
	}
	m.records[sessionID] = append([]model.AttendanceRecord(nil), records...)
	return nil
}

func (m *mockRecordRepo) CountBySession(_ context.Context, sessionID string) (int64, error) {
	return int64(len(m.records[sessionID])), nil
}

// ────

type mockAssignmentRepo struct {
	// assigned[teacherID][classID]
	assigned map[string]map[string]bool
	// subjects[teacherID] 主讲科目
	subjects map[string][]string
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assigned: map[string]map[string]bool{},
		subjects: map[string][]string{},
	}
}

func (m *mockAssignmentRepo) assign(teacherID, classID string) {
	if m.assigned[teacherID] == nil {
		m.assigned[teacherID] = map[string]bool{}
	}
	m.assigned[teacherID][classID] = true
}

func (m *mockAssignmentRepo) IsTeacherAssigned(_ context.Context, teacherID, classID string, subjectID *string) (bool, error) {
	if m.assigned[teacherID][classID] {
		return true, nil
	}
	if subjectID != nil && *subjectID != "" {
		for _, sid := range m.subjects[teacherID] {
			if sid == *subjectID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) ListTeacherClassIDs(_ context.Context, teacherID string) ([]string, error) {
	var ids []string
	for classID := range m.assigned[teacherID] {
		ids = append(ids, classID)
	}
	return ids, nil
}

func (m *mockAssignmentRepo) ListTeacherSubjectIDs(_ context.Context, teacherID string) ([]string, error) {
	return append([]string(nil), m.subjects[teacherID]...), nil
}

// ────

type mockStatusRepo struct {
	statuses []model.AttendanceStatus
}

func (m *mockStatusRepo) ListActive(_ context.Context) ([]model.AttendanceStatus, error) {
	return m.statuses, nil
}

func (m *mockStatusRepo) GetByID(_ context.Context, id string) (*model.AttendanceStatus, error) {
	for i := range m.statuses {
		if m.statuses[i].StatusID == id {
			return &m.statuses[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ────

type mockStudentRepo struct {
	students map[string]*model.Student
	classes  map[string]*model.Class
	subjects []model.Subject
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{
		students: map[string]*model.Student{},
		classes:  map[string]*model.Class{},
	}
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockStudentRepo) ListByClass(_ context.Context, classID string) ([]model.Student, error) {
	var out []model.Student
	for _, s := range m.students {
		if s.ClassID == classID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) GetClass(_ context.Context, classID string) (*model.Class, error) {
	c, ok := m.classes[classID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockStudentRepo) ListClasses(_ context.Context) ([]model.Class, error) {
	var out []model.Class
	for _, c := range m.classes {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockStudentRepo) ListClassesByIDs(_ context.Context, ids []string) ([]model.Class, error) {
	var out []model.Class
	for _, id := range ids {
		if c, ok := m.classes[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) ListSubjects(_ context.Context) ([]model.Subject, error) {
	return m.subjects, nil
}

func (m *mockStudentRepo) ListSubjectsByIDs(_ context.Context, ids []string) ([]model.Subject, error) {
	var out []model.Subject
	for _, sub := range m.subjects {
		for _, id := range ids {
			if sub.SubjectID == id {
				out = append(out, sub)
			}
		}
	}
	return out, nil
}

// ────

type mockUserRepo struct {
	users map[string]*model.User // key: username
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.users {
		if u.UserID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ────

type mockReportRepo struct {
	summaryRows []repository.SummaryRow
	classRows   []repository.ClassReportScanRow
	dailyRows   []repository.DailyScanRow
	monthlyRows []repository.MonthlyScanRow
}

func (m *mockReportRepo) StudentMonthlySummary(context.Context, string, string) ([]repository.SummaryRow, error) {
	return m.summaryRows, nil
}

func (m *mockReportRepo) ClassReport(context.Context, string, string, string) ([]repository.ClassReportScanRow, error) {
	return m.classRows, nil
}

func (m *mockReportRepo) DailyStats(context.Context, string, string, string) ([]repository.DailyScanRow, error) {
	return m.dailyRows, nil
}

func (m *mockReportRepo) MonthlyStats(context.Context, string, string) ([]repository.MonthlyScanRow, error) {
	return m.monthlyRows, nil
}

// ════ 组装辅助 ════

type testRepos struct {
	sessions    *mockSessionRepo
	records     *mockRecordRepo
	assignments *mockAssignmentRepo
	statuses    *mockStatusRepo
	students    *mockStudentRepo
	users       *mockUserRepo
	reports     *mockReportRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		sessions:    newMockSessionRepo(),
		records:     newMockRecordRepo(),
		assignments: newMockAssignmentRepo(),
		statuses:    &mockStatusRepo{},
		students:    newMockStudentRepo(),
		users:       &mockUserRepo{users: map[string]*model.User{}},
		reports:     &mockReportRepo{},
	}
}

func (t *testRepos) repository() *repository.Repository {
	return &repository.Repository{
		Session:    t.sessions,
		Record:     t.records,
		Status:     t.statuses,
		Assignment: t.assignments,
		Student:    t.students,
		User:       t.users,
		Report:     t.reports,
	}
}

// recordingNotifier 记录广播过的资源名
type recordingNotifier struct {
	resources []string
}

func (n *recordingNotifier) DataChanged(_ context.Context, resource string) {
	n.resources = append(n.resources, resource)
}

var errMockInsert = errors.New("模拟插入失败")
