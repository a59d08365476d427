package repository

import (
	"gorm.io/gorm"
)

// Repository 聚合所有数据访问接口
type Repository struct {
	Session    SessionRepository
	Record     RecordRepository
	Status     StatusRepository
	Assignment AssignmentRepository
	Student    StudentRepository
	User       UserRepository
	Report     ReportRepository
}

// New 创建仓储聚合
func New(db *gorm.DB) *Repository {
	return &Repository{
		Session:    NewSessionRepository(db),
		Record:     NewRecordRepository(db),
		Status:     NewStatusRepository(db),
		Assignment: NewAssignmentRepository(db),
		Student:    NewStudentRepository(db),
		User:       NewUserRepository(db),
		Report:     NewReportRepository(db),
	}
}
