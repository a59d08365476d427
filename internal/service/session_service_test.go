package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/model"
	pkgerrors "smartschool/backend/pkg/errors"
)

func adminPrincipal() model.Principal {
	return model.Principal{Role: model.RoleAdmin, UserID: "admin-1"}
}

func teacherPrincipal(teacherID string) model.Principal {
	return model.Principal{Role: model.RoleTeacher, UserID: "user-t", TeacherID: teacherID}
}

func classrepPrincipal(studentID, classID string) model.Principal {
	return model.Principal{Role: model.RoleClassRep, UserID: "user-r", StudentID: studentID, ClassID: classID}
}

func studentPrincipal(studentID, classID string) model.Principal {
	return model.Principal{Role: model.RoleStudent, UserID: "user-s", StudentID: studentID, ClassID: classID}
}

func newSessionServiceForTest(repos *testRepos) SessionService {
	perm := NewPermissionEvaluator(repos.assignments)
	return NewSessionService(repos.repository(), perm, &recordingNotifier{}, zap.NewNop())
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}
	return d
}

func TestSessionCreate(t *testing.T) {
	repos := newTestRepos()
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()

	resp, err := svc.Create(ctx, adminPrincipal(), &dto.CreateSessionRequest{
		Name:        "早读签到",
		SessionDate: "2026-09-01",
		ClassID:     "class-a",
		StartTime:   "08:00",
		EndTime:     "09:00",
	})
	if err != nil {
		t.Fatalf("创建场次失败: %v", err)
	}
	if resp.Status != "open" {
		t.Errorf("默认状态应为 open，实际 %s", resp.Status)
	}
	if resp.CreatedBy != "admin-1" || resp.CreatorRole != "admin" {
		t.Errorf("创建者信息错误: %s/%s", resp.CreatedBy, resp.CreatorRole)
	}
}

func TestSessionCreateSlotConflict(t *testing.T) {
	repos := newTestRepos()
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()

	base := &dto.CreateSessionRequest{
		Name:        "第一节",
		SessionDate: "2026-09-01",
		ClassID:     "class-a",
		StartTime:   "08:00",
		EndTime:     "09:00",
	}
	if _, err := svc.Create(ctx, adminPrincipal(), base); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}

	tests := []struct {
		name      string
		start     string
		end       string
		classID   string
		date      string
		wantError bool
	}{
		{"完全重叠", "08:00", "09:00", "class-a", "2026-09-01", true},
		{"部分重叠", "08:30", "09:30", "class-a", "2026-09-01", true},
		{"被包含", "08:15", "08:45", "class-a", "2026-09-01", true},
		{"首尾相接在后", "09:00", "10:00", "class-a", "2026-09-01", false},
		{"首尾相接在前", "07:00", "08:00", "class-a", "2026-09-01", false},
		{"不同班级同时段", "08:00", "09:00", "class-b", "2026-09-01", false},
		{"不同日期同时段", "08:00", "09:00", "class-a", "2026-09-02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, adminPrincipal(), &dto.CreateSessionRequest{
				Name:        "另一场",
				SessionDate: tt.date,
				ClassID:     tt.classID,
				StartTime:   tt.start,
				EndTime:     tt.end,
			})
			if tt.wantError && !errors.Is(err, pkgerrors.ErrSlotConflict) {
				t.Errorf("期望时段冲突，实际 %v", err)
			}
			if !tt.wantError && err != nil {
				t.Errorf("不应冲突，实际 %v", err)
			}
		})
	}
}

func TestSessionCreatePermission(t *testing.T) {
	repos := newTestRepos()
	repos.assignments.assign("teacher-1", "class-a")
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()

	req := func(classID string) *dto.CreateSessionRequest {
		return &dto.CreateSessionRequest{
			Name:        "测试",
			SessionDate: "2026-09-01",
			ClassID:     classID,
			StartTime:   "10:00",
			EndTime:     "11:00",
		}
	}

	if _, err := svc.Create(ctx, studentPrincipal("stu-1", "class-a"), req("class-a")); !errors.Is(err, ErrForbidden) {
		t.Errorf("学生创建应被拒绝，实际 %v", err)
	}
	if _, err := svc.Create(ctx, teacherPrincipal("teacher-1"), req("class-b")); !errors.Is(err, ErrForbidden) {
		t.Errorf("教师对未任教班级创建应被拒绝，实际 %v", err)
	}
	if _, err := svc.Create(ctx, classrepPrincipal("stu-1", "class-a"), req("class-b")); !errors.Is(err, ErrForbidden) {
		t.Errorf("班代对他班创建应被拒绝，实际 %v", err)
	}
	if _, err := svc.Create(ctx, classrepPrincipal("stu-1", "class-a"), req("class-a")); err != nil {
		t.Errorf("班代对本班创建应放行，实际 %v", err)
	}
}

// 班代不能直接建出已关闭的场次，其余状态不受限
func TestSessionCreateClassRepClosedStatus(t *testing.T) {
	repos := newTestRepos()
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()
	rep := classrepPrincipal("stu-1", "class-a")

	req := func(status, start string) *dto.CreateSessionRequest {
		return &dto.CreateSessionRequest{
			Name:        "状态受限",
			SessionDate: "2026-09-01",
			ClassID:     "class-a",
			StartTime:   start,
			EndTime:     start[:2] + ":50",
			Status:      status,
		}
	}

	if _, err := svc.Create(ctx, rep, req("closed", "08:00")); !errors.Is(err, ErrForbidden) {
		t.Errorf("班代创建 closed 场次应被拒绝，实际 %v", err)
	}
	if _, err := svc.Create(ctx, rep, req("pending", "09:00")); err != nil {
		t.Errorf("班代创建 pending 场次应放行，实际 %v", err)
	}
	if _, err := svc.Create(ctx, adminPrincipal(), req("closed", "10:00")); err != nil {
		t.Errorf("管理员创建 closed 场次应放行，实际 %v", err)
	}
}

func TestSessionCreateInvalidTimes(t *testing.T) {
	repos := newTestRepos()
	svc := newSessionServiceForTest(repos)

	_, err := svc.Create(context.Background(), adminPrincipal(), &dto.CreateSessionRequest{
		Name:        "时间颠倒",
		SessionDate: "2026-09-01",
		ClassID:     "class-a",
		StartTime:   "10:00",
		EndTime:     "09:00",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("开始时间晚于结束时间应校验失败，实际 %v", err)
	}
}

func TestSessionGetCollapsesDeniedToNotFound(t *testing.T) {
	repos := newTestRepos()
	created := repos.sessions.put(&model.AttendanceSession{
		Name:        "他班场次",
		SessionDate: mustDate(t, "2026-09-01"),
		ClassID:     "class-b",
		StartTime:   "08:00",
		EndTime:     "09:00",
		Status:      model.SessionOpen,
		CreatedBy:   "admin-1",
		CreatorRole: model.RoleAdmin,
	})
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()

	// 无权读取与不存在对外表现一致
	if _, err := svc.Get(ctx, studentPrincipal("stu-1", "class-a"), created.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("他班学生读取应返回不存在，实际 %v", err)
	}
	if _, err := svc.Get(ctx, studentPrincipal("stu-1", "class-a"), "no-such-id"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("不存在的场次应返回不存在，实际 %v", err)
	}
	if _, err := svc.Get(ctx, adminPrincipal(), created.SessionID); err != nil {
		t.Errorf("管理员读取应放行，实际 %v", err)
	}
}

func TestSessionListScope(t *testing.T) {
	repos := newTestRepos()
	repos.assignments.assign("teacher-1", "class-a")
	for _, classID := range []string{"class-a", "class-b"} {
		repos.sessions.put(&model.AttendanceSession{
			Name:        "场次" + classID,
			SessionDate: mustDate(t, "2026-09-01"),
			ClassID:     classID,
			StartTime:   "08:00",
			EndTime:     "09:00",
			Status:      model.SessionOpen,
			CreatedBy:   "admin-1",
			CreatorRole: model.RoleAdmin,
		})
	}
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()

	all, err := svc.List(ctx, adminPrincipal(), &dto.ListSessionsRequest{})
	if err != nil || len(all) != 2 {
		t.Fatalf("管理员应看到 2 个场次，实际 %d, err=%v", len(all), err)
	}
	teacherView, err := svc.List(ctx, teacherPrincipal("teacher-1"), &dto.ListSessionsRequest{})
	if err != nil || len(teacherView) != 1 || teacherView[0].ClassID != "class-a" {
		t.Fatalf("教师应只看到任教班级，实际 %v, err=%v", teacherView, err)
	}
	studentView, err := svc.List(ctx, studentPrincipal("stu-1", "class-b"), &dto.ListSessionsRequest{})
	if err != nil || len(studentView) != 1 || studentView[0].ClassID != "class-b" {
		t.Fatalf("学生应只看到本班场次，实际 %v, err=%v", studentView, err)
	}
}

func TestSessionUpdateGates(t *testing.T) {
	repos := newTestRepos()
	// 班代 stu-1 自建的开放与已关闭场次
	own := repos.sessions.put(&model.AttendanceSession{
		Name:        "班代自建",
		SessionDate: mustDate(t, "2026-09-01"),
		ClassID:     "class-a",
		StartTime:   "08:00",
		EndTime:     "09:00",
		Status:      model.SessionOpen,
		CreatedBy:   "stu-1",
		CreatorRole: model.RoleClassRep,
	})
	ownClosed := repos.sessions.put(&model.AttendanceSession{
		Name:        "班代自建已关闭",
		SessionDate: mustDate(t, "2026-08-01"),
		ClassID:     "class-a",
		StartTime:   "08:00",
		EndTime:     "09:00",
		Status:      model.SessionClosed,
		CreatedBy:   "stu-1",
		CreatorRole: model.RoleClassRep,
	})
	// 教师创建的同班开放场次
	teacherOwned := repos.sessions.put(&model.AttendanceSession{
		Name:        "教师创建",
		SessionDate: mustDate(t, "2026-09-02"),
		ClassID:     "class-a",
		StartTime:   "08:00",
		EndTime:     "09:00",
		Status:      model.SessionOpen,
		CreatedBy:   "teacher-1",
		CreatorRole: model.RoleTeacher,
	})
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()
	rep := classrepPrincipal("stu-1", "class-a")

	newName := "改名"
	if _, err := svc.Update(ctx, rep, own.SessionID, &dto.UpdateSessionRequest{Name: &newName}); err != nil {
		t.Errorf("班代更新自建开放场次应放行，实际 %v", err)
	}
	if _, err := svc.Update(ctx, rep, ownClosed.SessionID, &dto.UpdateSessionRequest{Name: &newName}); !errors.Is(err, ErrSessionNotOpen) {
		t.Errorf("班代更新已关闭场次应被拒绝，实际 %v", err)
	}
	// 非创建者班代即使同班也不可写
	if _, err := svc.Update(ctx, rep, teacherOwned.SessionID, &dto.UpdateSessionRequest{Name: &newName}); !errors.Is(err, ErrForbidden) {
		t.Errorf("班代更新教师创建的场次应被拒绝，实际 %v", err)
	}
	if _, err := svc.Update(ctx, classrepPrincipal("stu-2", "class-a"), own.SessionID, &dto.UpdateSessionRequest{Name: &newName}); !errors.Is(err, ErrForbidden) {
		t.Errorf("另一位班代更新他人自建场次应被拒绝，实际 %v", err)
	}
	if _, err := svc.Update(ctx, adminPrincipal(), ownClosed.SessionID, &dto.UpdateSessionRequest{Name: &newName}); err != nil {
		t.Errorf("管理员更新已关闭场次应放行，实际 %v", err)
	}
}

// 创建者教师的任教关系被移除后，自建场次仍可读、可列出、可修改
func TestSessionCreatorTeacherWithoutAssignment(t *testing.T) {
	repos := newTestRepos()
	created := repos.sessions.put(&model.AttendanceSession{
		Name:        "自建场次",
		SessionDate: mustDate(t, "2026-09-01"),
		ClassID:     "class-a",
		StartTime:   "08:00",
		EndTime:     "09:00",
		Status:      model.SessionOpen,
		CreatedBy:   "teacher-1",
		CreatorRole: model.RoleTeacher,
	})
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()
	p := teacherPrincipal("teacher-1")

	if _, err := svc.Get(ctx, p, created.SessionID); err != nil {
		t.Errorf("创建者教师读取自建场次应放行，实际 %v", err)
	}
	listed, err := svc.List(ctx, p, &dto.ListSessionsRequest{})
	if err != nil || len(listed) != 1 {
		t.Errorf("创建者教师应在列表中看到自建场次，实际 %d 个, err=%v", len(listed), err)
	}
	newName := "改名"
	if _, err := svc.Update(ctx, p, created.SessionID, &dto.UpdateSessionRequest{Name: &newName}); err != nil {
		t.Errorf("创建者教师更新自建场次应放行，实际 %v", err)
	}
	// 其他未任教教师依旧不可见
	if _, err := svc.Get(ctx, teacherPrincipal("teacher-2"), created.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("未任教非创建者教师读取应返回不存在，实际 %v", err)
	}
}

func TestSessionUpdateOverlapRecheck(t *testing.T) {
	repos := newTestRepos()
	repos.sessions.put(&model.AttendanceSession{
		SessionID:   "s1",
		Name:        "第一节",
		SessionDate: mustDate(t, "2026-09-01"),
		ClassID:     "class-a",
		StartTime:   "08:00",
		EndTime:     "09:00",
		Status:      model.SessionOpen,
		CreatedBy:   "admin-1",
		CreatorRole: model.RoleAdmin,
	})
	repos.sessions.put(&model.AttendanceSession{
		SessionID:   "s2",
		Name:        "第二节",
		SessionDate: mustDate(t, "2026-09-01"),
		ClassID:     "class-a",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      model.SessionOpen,
		CreatedBy:   "admin-1",
		CreatorRole: model.RoleAdmin,
	})
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()

	conflicting := "08:30"
	if _, err := svc.Update(ctx, adminPrincipal(), "s2", &dto.UpdateSessionRequest{StartTime: &conflicting}); !errors.Is(err, pkgerrors.ErrSlotConflict) {
		t.Errorf("更新后与兄弟场次重叠应冲突，实际 %v", err)
	}

	// 改自身时间但不与他人重叠
	later := "09:30"
	if _, err := svc.Update(ctx, adminPrincipal(), "s2", &dto.UpdateSessionRequest{StartTime: &later}); err != nil {
		t.Errorf("无重叠的时间调整应放行，实际 %v", err)
	}
}

func TestSessionSetStatus(t *testing.T) {
	repos := newTestRepos()
	repos.assignments.assign("teacher-1", "class-a")
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()

	newSession := func(status model.SessionStatus) string {
		return repos.sessions.put(&model.AttendanceSession{
			Name:        "状态机",
			SessionDate: mustDate(t, "2026-09-01"),
			ClassID:     "class-a",
			StartTime:   "08:00",
			EndTime:     "09:00",
			Status:      status,
			CreatedBy:   "teacher-1",
			CreatorRole: model.RoleTeacher,
		}).SessionID
	}

	// 教师可关闭开放场次
	openID := newSession(model.SessionOpen)
	if _, err := svc.SetStatus(ctx, teacherPrincipal("teacher-1"), openID, "closed"); err != nil {
		t.Errorf("教师关闭开放场次应放行，实际 %v", err)
	}

	// 教师不能重开已关闭场次
	closedID := newSession(model.SessionClosed)
	if _, err := svc.SetStatus(ctx, teacherPrincipal("teacher-1"), closedID, "open"); !errors.Is(err, ErrForbidden) {
		t.Errorf("教师重开已关闭场次应被拒绝，实际 %v", err)
	}

	// 教师不能从 pending 直接关闭，非开放状态的变更只属于管理员
	pendingID := newSession(model.SessionPending)
	if _, err := svc.SetStatus(ctx, teacherPrincipal("teacher-1"), pendingID, "closed"); !errors.Is(err, ErrForbidden) {
		t.Errorf("教师变更 pending 场次状态应被拒绝，实际 %v", err)
	}
	if _, err := svc.SetStatus(ctx, adminPrincipal(), pendingID, "open"); err != nil {
		t.Errorf("管理员开放 pending 场次应放行，实际 %v", err)
	}

	// 管理员可重开
	if resp, err := svc.SetStatus(ctx, adminPrincipal(), closedID, "open"); err != nil || resp.Status != "open" {
		t.Errorf("管理员重开应放行，实际 %v, err=%v", resp, err)
	}

	// 班代与学生对状态机无任何权限
	anotherID := newSession(model.SessionOpen)
	if _, err := svc.SetStatus(ctx, classrepPrincipal("stu-1", "class-a"), anotherID, "closed"); !errors.Is(err, ErrForbidden) {
		t.Errorf("班代变更状态应被拒绝，实际 %v", err)
	}
	if _, err := svc.SetStatus(ctx, studentPrincipal("stu-1", "class-a"), anotherID, "closed"); !errors.Is(err, ErrForbidden) {
		t.Errorf("学生变更状态应被拒绝，实际 %v", err)
	}

	// 非法状态值
	if _, err := svc.SetStatus(ctx, adminPrincipal(), anotherID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("非法状态应返回 ErrInvalidStatus，实际 %v", err)
	}
}

func TestSessionDelete(t *testing.T) {
	repos := newTestRepos()
	id := repos.sessions.put(&model.AttendanceSession{
		Name:        "待删除",
		SessionDate: mustDate(t, "2026-09-01"),
		ClassID:     "class-a",
		StartTime:   "08:00",
		EndTime:     "09:00",
		Status:      model.SessionOpen,
		CreatedBy:   "admin-1",
		CreatorRole: model.RoleAdmin,
	}).SessionID
	svc := newSessionServiceForTest(repos)
	ctx := context.Background()

	if err := svc.Delete(ctx, teacherPrincipal("teacher-1"), id); !errors.Is(err, ErrForbidden) {
		t.Errorf("非管理员删除应被拒绝，实际 %v", err)
	}
	if err := svc.Delete(ctx, adminPrincipal(), id); err != nil {
		t.Errorf("管理员删除应放行，实际 %v", err)
	}
	if err := svc.Delete(ctx, adminPrincipal(), id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("重复删除应返回不存在，实际 %v", err)
	}
}
