package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/model"
	"smartschool/backend/internal/repository"
	"smartschool/backend/pkg/notifier"
)

// RecordService 签到记录业务接口
type RecordService interface {
	ListBySession(ctx context.Context, p model.Principal, sessionID string) ([]dto.RecordResponse, error)
	// RecordBatch 整组替换某场次的签到名册，返回写入条数
	RecordBatch(ctx context.Context, p model.Principal, sessionID string, req *dto.BatchRecordRequest) (int, error)
}

type recordService struct {
	repo     *repository.Repository
	perm     *PermissionEvaluator
	notifier notifier.Notifier
	logger   *zap.Logger
}

// NewRecordService 创建签到记录服务
func NewRecordService(repo *repository.Repository, perm *PermissionEvaluator, n notifier.Notifier, logger *zap.Logger) RecordService {
	return &recordService{repo: repo, perm: perm, notifier: n, logger: logger}
}

func (s *recordService) ListBySession(ctx context.Context, p model.Principal, sessionID string) ([]dto.RecordResponse, error) {
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

	records, err := s.repo.Record.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		out = append(out, toRecordResponse(&records[i]))
	}
	return out, nil
}

func (s *recordService) RecordBatch(ctx context.Context, p model.Principal, sessionID string, req *dto.BatchRecordRequest) (int, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		return 0, mapNotFound(err)
	}
	allowed, err := s.perm.CanWrite(ctx, p, session)
	if err != nil {
		return 0, err
	}
	if !allowed {
		return 0, ErrForbidden
	}
	// 开放状态门禁对所有角色生效，管理员也不例外
	if session.Status != model.SessionOpen {
		return 0, ErrSessionNotOpen
	}
	actorID, err := p.ActorID()
	if err != nil {
		return 0, err
	}

	entries := *req.Records
	seen := make(map[string]struct{}, len(entries))
	records := make([]model.AttendanceRecord, 0, len(entries))
	for i, e := range entries {
		if _, dup := seen[e.StudentID]; dup {
			return 0, fmt.Errorf("%w: 第 %d 条与此前条目学生重复", ErrValidation, i+1)
		}
		seen[e.StudentID] = struct{}{}

		classID := e.ClassID
		if classID == "" {
			classID = session.ClassID
		}
		date := session.SessionDate
		if e.AttendanceDate != "" {
			d, err := parseDate(e.AttendanceDate)
			if err != nil {
				return 0, fmt.Errorf("%w: 第 %d 条日期无效", ErrValidation, i+1)
			}
			date = d
		}

		records = append(records, model.AttendanceRecord{
			StudentID:      e.StudentID,
			ClassID:        classID,
			SessionID:      sessionID,
			AttendanceDate: date,
			StatusID:       e.StatusID,
			Notes:          e.Notes,
			RecordedBy:     actorID,
			RecorderRole:   p.Role,
		})
	}

	if err := s.repo.Record.ReplaceForSession(ctx, sessionID, records); err != nil {
		return 0, err
	}

	s.logger.Info("批量写入签到记录",
		zap.String("session_id", sessionID),
		zap.Int("count", len(records)),
		zap.String("recorder_role", p.Role.String()))
	s.notifier.DataChanged(ctx, "attendance")

	return len(records), nil
}

func toRecordResponse(r *model.AttendanceRecord) dto.RecordResponse {
	resp := dto.RecordResponse{
		ID:             r.AttendanceID,
		StudentID:      r.StudentID,
		ClassID:        r.ClassID,
		SessionID:      r.SessionID,
		AttendanceDate: r.AttendanceDate.Format("2006-01-02"),
		StatusID:       r.StatusID,
		Notes:          r.Notes,
		RecordedBy:     r.RecordedBy,
		RecorderRole:   r.RecorderRole.String(),
	}
	if r.Status != nil {
		resp.StatusCode = r.Status.Code
		resp.StatusName = r.Status.Name
		resp.StatusColor = r.Status.Color
	}
	if r.Student != nil {
		resp.StudentName = r.Student.FirstName + " " + r.Student.LastName
	}
	return resp
}
