package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/model"
	"smartschool/backend/internal/repository"
	pkgerrors "smartschool/backend/pkg/errors"
	"smartschool/backend/pkg/notifier"
)

// 未显式给出时间段时按全天处理，与任何同日场次都会判为冲突
const (
	defaultStartTime = "00:00"
	defaultEndTime   = "23:59"
)

// SessionService 签到场次业务接口
type SessionService interface {
	Create(ctx context.Context, p model.Principal, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, p model.Principal, id string) (*dto.SessionResponse, error)
	List(ctx context.Context, p model.Principal, req *dto.ListSessionsRequest) ([]dto.SessionResponse, error)
	Update(ctx context.Context, p model.Principal, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	SetStatus(ctx context.Context, p model.Principal, id, status string) (*dto.SessionResponse, error)
	Delete(ctx context.Context, p model.Principal, id string) error
}

type sessionService struct {
	repo     *repository.Repository
	perm     *PermissionEvaluator
	notifier notifier.Notifier
	logger   *zap.Logger
}

// NewSessionService 创建场次服务
func NewSessionService(repo *repository.Repository, perm *PermissionEvaluator, n notifier.Notifier, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, perm: perm, notifier: n, logger: logger}
}

func (s *sessionService) Create(ctx context.Context, p model.Principal, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	actorID, err := p.ActorID()
	if err != nil {
		return nil, err
	}

	// 创建权限与目标班级挂钩：student 一律拒绝
	allowed, err := s.perm.CanCreate(ctx, p, req.ClassID, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	startTime := req.StartTime
	endTime := req.EndTime
	if startTime == "" {
		startTime = defaultStartTime
	}
	if endTime == "" {
		endTime = defaultEndTime
	}
	if startTime >= endTime {
		return nil, fmt.Errorf("%w: 开始时间必须早于结束时间", ErrValidation)
	}

	status := model.SessionOpen
	if req.Status != "" {
		status, err = model.ParseSessionStatus(req.Status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
	}
	// 班代不能直接建出已关闭的场次
	if p.Role == model.RoleClassRep && status == model.SessionClosed {
		return nil, ErrForbidden
	}

	sessionDate, err := time.Parse("2006-01-02", req.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 无效的日期", ErrValidation)
	}

	session := &model.AttendanceSession{
		Name:        req.Name,
		SessionDate: sessionDate,
		ClassID:     req.ClassID,
		SubjectID:   req.SubjectID,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      status,
		CreatedBy:   actorID,
		CreatorRole: p.Role,
	}
	if err := s.repo.Session.CreateExcludingOverlap(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("创建签到场次",
		zap.String("session_id", session.SessionID),
		zap.String("class_id", session.ClassID),
		zap.String("creator_role", p.Role.String()))
	s.notifier.DataChanged(ctx, "sessions")

	created, err := s.repo.Session.GetByID(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(created)
	return &resp, nil
}

func (s *sessionService) Get(ctx context.Context, p model.Principal, id string) (*dto.SessionResponse, error) {
	session, allowed, err := s.loadReadable(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !allowed {
		// 不存在与无权读取对外同为「不存在」，避免泄露场次存在性
		return nil, ErrSessionNotFound
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) List(ctx context.Context, p model.Principal, req *dto.ListSessionsRequest) ([]dto.SessionResponse, error) {
	scope, err := s.scopeFor(ctx, p)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.Session.List(ctx, scope, repository.SessionFilter{
		Date:      req.Date,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResponse(&sessions[i]))
	}
	return out, nil
}

func (s *sessionService) Update(ctx context.Context, p model.Principal, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed, err := s.perm.CanWrite(ctx, p, session)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	// 非管理员只能修改开放中的场次
	if p.Role != model.RoleAdmin && session.Status != model.SessionOpen {
		return nil, ErrSessionNotOpen
	}

	updates := map[string]interface{}{}
	startTime := session.StartTime
	endTime := session.EndTime
	sessionDate := session.SessionDate

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SessionDate != nil {
		d, err := time.Parse("2006-01-02", *req.SessionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: 无效的日期", ErrValidation)
		}
		sessionDate = d
		updates["session_date"] = d
	}
	if req.SubjectID != nil {
		updates["subject_id"] = *req.SubjectID
	}
	if req.StartTime != nil {
		startTime = *req.StartTime
		updates["start_time"] = startTime
	}
	if req.EndTime != nil {
		endTime = *req.EndTime
		updates["end_time"] = endTime
	}
	if startTime >= endTime {
		return nil, fmt.Errorf("%w: 开始时间必须早于结束时间", ErrValidation)
	}

	if len(updates) == 0 {
		resp := toSessionResponse(session)
		return &resp, nil
	}

	// 日期或时间段变动时重新校验同班同日不重叠（排除自身）
	if req.SessionDate != nil || req.StartTime != nil || req.EndTime != nil {
		if err := s.checkOverlap(ctx, session.ClassID, sessionDate, startTime, endTime, session.SessionID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Session.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	s.notifier.DataChanged(ctx, "sessions")

	updated, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(updated)
	return &resp, nil
}

func (s *sessionService) SetStatus(ctx context.Context, p model.Principal, id, status string) (*dto.SessionResponse, error) {
	newStatus, err := model.ParseSessionStatus(status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	session, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, err
	}

	// classrep 不拥有状态机：关闭与重开须由教师或管理员操作
	if p.Role == model.RoleClassRep || p.Role == model.RoleStudent {
		return nil, ErrForbidden
	}
	allowed, err := s.perm.CanWrite(ctx, p, session)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	// 非管理员只能从开放状态出发做变更，pending 与 closed 场次须由管理员处理
	if p.Role != model.RoleAdmin && session.Status != model.SessionOpen {
		return nil, ErrForbidden
	}

	if err := s.repo.Session.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	s.logger.Info("变更场次状态",
		zap.String("session_id", id),
		zap.String("from", string(session.Status)),
		zap.String("to", string(newStatus)),
		zap.String("role", p.Role.String()))
	s.notifier.DataChanged(ctx, "sessions")

	updated, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(updated)
	return &resp, nil
}

func (s *sessionService) Delete(ctx context.Context, p model.Principal, id string) error {
	if p.Role != model.RoleAdmin {
		return ErrForbidden
	}
	if _, err := s.getOrNotFound(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Session.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("删除签到场次", zap.String("session_id", id))
	s.notifier.DataChanged(ctx, "sessions")
	s.notifier.DataChanged(ctx, "attendance")
	return nil
}

// ── 内部辅助 ──

func (s *sessionService) getOrNotFound(ctx context.Context, id string) (*model.AttendanceSession, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) loadReadable(ctx context.Context, p model.Principal, id string) (*model.AttendanceSession, bool, error) {
	session, err := s.getOrNotFound(ctx, id)
	if err != nil {
		return nil, false, err
	}
	allowed, err := s.perm.CanRead(ctx, p, session)
	if err != nil {
		return nil, false, err
	}
	return session, allowed, nil
}

func (s *sessionService) scopeFor(ctx context.Context, p model.Principal) (repository.SessionScope, error) {
	switch p.Role {
	case model.RoleAdmin:
		return repository.SessionScope{All: true}, nil
	case model.RoleTeacher:
		// 任教班级之外还包含自己创建的场次，与单条读取判定一致
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

func (s *sessionService) checkOverlap(ctx context.Context, classID string, date time.Time, startTime, endTime, excludeID string) error {
	siblings, err := s.repo.Session.List(ctx, repository.SessionScope{All: true}, repository.SessionFilter{
		Date:    date.Format("2006-01-02"),
		ClassID: classID,
	})
	if err != nil {
		return err
	}
	for i := range siblings {
		if siblings[i].SessionID == excludeID {
			continue
		}
		if siblings[i].Overlaps(startTime, endTime) {
			return pkgerrors.ErrSlotConflict
		}
	}
	return nil
}

func toSessionResponse(s *model.AttendanceSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:          s.SessionID,
		Name:        s.Name,
		SessionDate: s.SessionDate.Format("2006-01-02"),
		ClassID:     s.ClassID,
		SubjectID:   s.SubjectID,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Status:      string(s.Status),
		CreatedBy:   s.CreatedBy,
		CreatorRole: s.CreatorRole.String(),
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
	if s.Class != nil {
		resp.ClassName = s.Class.Name
	}
	if s.Subject != nil {
		resp.SubjectName = s.Subject.Name
	}
	return resp
}
