package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"smartschool/backend/internal/model"
	pkgerrors "smartschool/backend/pkg/errors"
)

// SessionScope 角色可见范围：All 为 true 时不加任何限制（管理员）
// 否则限制在 ClassIDs 内；CreatedBy 非空时额外放行本人以
// CreatorRole 身份创建的场次
type SessionScope struct {
	All         bool
	ClassIDs    []string
	CreatedBy   string
	CreatorRole model.Role
}

// SessionFilter 查询过滤条件，零值字段不参与过滤
type SessionFilter struct {
	Date      string
	ClassID   string
	SubjectID string
}

// SessionRepository 签到场次数据访问接口
type SessionRepository interface {
	// CreateExcludingOverlap 在同一事务内检查同班同日时间段重叠后插入，
	// 冲突时返回 pkgerrors.ErrSlotConflict
	CreateExcludingOverlap(ctx context.Context, session *model.AttendanceSession) error
	GetByID(ctx context.Context, id string) (*model.AttendanceSession, error)
	List(ctx context.Context, scope SessionScope, filter SessionFilter) ([]model.AttendanceSession, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error
	Delete(ctx context.Context, id string) error
	// CloseExpired 将指定日期之前仍为 open 的场次批量置为 closed，返回影响行数
	CloseExpired(ctx context.Context, before time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建场次仓储
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateExcludingOverlap(ctx context.Context, session *model.AttendanceSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 按（班级, 日期）取事务级咨询锁，串行化同槽位的并发创建
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtext(?), hashtext(?))",
			session.ClassID, session.SessionDate.Format("2006-01-02"),
		).Error; err != nil {
			return err
		}

		// 严格重叠判定：首尾相接不算冲突
		var count int64
		if err := tx.Model(&model.AttendanceSession{}).
			Where("class_id = ? AND session_date = ? AND start_time < ? AND end_time > ?",
				session.ClassID, session.SessionDate, session.EndTime, session.StartTime).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return pkgerrors.ErrSlotConflict
		}

		return tx.Create(session).Error
	})
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*model.AttendanceSession, error) {
	var session model.AttendanceSession
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		First(&session, "session_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) List(ctx context.Context, scope SessionScope, filter SessionFilter) ([]model.AttendanceSession, error) {
	query := r.db.WithContext(ctx).Model(&model.AttendanceSession{}).
		Preload("Class").
		Preload("Subject")

	if !scope.All {
		if scope.CreatedBy != "" {
			query = query.Where("class_id IN ? OR (created_by = ? AND creator_role = ?)",
				scope.ClassIDs, scope.CreatedBy, scope.CreatorRole)
		} else {
			query = query.Where("class_id IN ?", scope.ClassIDs)
		}
	}
	if filter.Date != "" {
		query = query.Where("session_date = ?", filter.Date)
	}
	if filter.ClassID != "" {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.SubjectID != "" {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}

	var sessions []model.AttendanceSession
	err := query.Order("session_date DESC, start_time ASC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.AttendanceSession{}).
		Where("session_id = ?", id).
		Updates(updates).Error
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error {
	return r.db.WithContext(ctx).Model(&model.AttendanceSession{}).
		Where("session_id = ?", id).
		Update("status", status).Error
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	// attendance 表外键 ON DELETE CASCADE，场次删除时记录一并清除
	return r.db.WithContext(ctx).Delete(&model.AttendanceSession{}, "session_id = ?", id).Error
}

func (r *sessionRepository) CloseExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.AttendanceSession{}).
		Where("status = ? AND session_date < ?", model.SessionOpen, before.Format("2006-01-02")).
		Update("status", model.SessionClosed)
	return result.RowsAffected, result.Error
}
