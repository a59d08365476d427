package repository

import (
	"context"

	"gorm.io/gorm"

	"smartschool/backend/internal/model"
)

// RecordRepository 签到记录数据访问接口
type RecordRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error)
	// ReplaceForSession 在单个事务内先删除该场次全部记录再插入新记录，
	// 任一插入失败则整体回滚
	ReplaceForSession(ctx context.Context, sessionID string, records []model.AttendanceRecord) error
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository 创建签到记录仓储
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) ListBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Student").
		Where("session_id = ?", sessionID).
		Order("attendance_date ASC").
		Find(&records).Error
	return records, err
}

func (r *recordRepository) ReplaceForSession(ctx context.Context, sessionID string, records []model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).
			Delete(&model.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (r *recordRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
