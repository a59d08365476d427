package repository

import (
	"context"

	"gorm.io/gorm"

	"smartschool/backend/internal/model"
)

// StatusRepository 签到状态字典只读访问接口
type StatusRepository interface {
	ListActive(ctx context.Context) ([]model.AttendanceStatus, error)
	GetByID(ctx context.Context, id string) (*model.AttendanceStatus, error)
}

type statusRepository struct {
	db *gorm.DB
}

// NewStatusRepository 创建状态字典仓储
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) ListActive(ctx context.Context) ([]model.AttendanceStatus, error) {
	var statuses []model.AttendanceStatus
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&statuses).Error
	return statuses, err
}

func (r *statusRepository) GetByID(ctx context.Context, id string) (*model.AttendanceStatus, error) {
	var status model.AttendanceStatus
	err := r.db.WithContext(ctx).First(&status, "status_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}
