package repository

import (
	"context"

	"gorm.io/gorm"

	"smartschool/backend/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	GetByID(ctx context.Context, id string) (*model.Student, error)
	ListByClass(ctx context.Context, classID string) ([]model.Student, error)
	GetClass(ctx context.Context, classID string) (*model.Class, error)
	ListClasses(ctx context.Context) ([]model.Class, error)
	ListClassesByIDs(ctx context.Context, ids []string) ([]model.Class, error)
	ListSubjects(ctx context.Context) ([]model.Subject, error)
	ListSubjectsByIDs(ctx context.Context, ids []string) ([]model.Subject, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository 创建学生仓储
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		First(&student, "student_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) ListByClass(ctx context.Context, classID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("last_name ASC, first_name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepository) GetClass(ctx context.Context, classID string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).First(&class, "class_id = ?", classID).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *studentRepository) ListClasses(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.WithContext(ctx).Order("name ASC").Find(&classes).Error
	return classes, err
}

func (r *studentRepository) ListClassesByIDs(ctx context.Context, ids []string) ([]model.Class, error) {
	if len(ids) == 0 {
		return []model.Class{}, nil
	}
	var classes []model.Class
	err := r.db.WithContext(ctx).
		Where("class_id IN ?", ids).
		Order("name ASC").
		Find(&classes).Error
	return classes, err
}

func (r *studentRepository) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *studentRepository) ListSubjectsByIDs(ctx context.Context, ids []string) ([]model.Subject, error) {
	if len(ids) == 0 {
		return []model.Subject{}, nil
	}
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id IN ?", ids).
		Order("name ASC").
		Find(&subjects).Error
	return subjects, err
}
