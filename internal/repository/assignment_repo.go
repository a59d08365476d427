package repository

import (
	"context"

	"gorm.io/gorm"

	"smartschool/backend/internal/model"
)

// AssignmentRepository 教师任教关系查询接口
// 授权事实来自 teacher_classes 表，以及教师自身的主讲科目字段
type AssignmentRepository interface {
	// IsTeacherAssigned 判断教师是否任教该班级；subjectID 非空时
	// 额外放行主讲科目匹配的教师
	IsTeacherAssigned(ctx context.Context, teacherID, classID string, subjectID *string) (bool, error)
	ListTeacherClassIDs(ctx context.Context, teacherID string) ([]string, error)
	ListTeacherSubjectIDs(ctx context.Context, teacherID string) ([]string, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建任教关系仓储
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) IsTeacherAssigned(ctx context.Context, teacherID, classID string, subjectID *string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TeacherClass{}).
		Where("teacher_id = ? AND class_id = ?", teacherID, classID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if subjectID == nil || *subjectID == "" {
		return false, nil
	}

	// 任教关系表无匹配时，回落到教师主讲科目
	err = r.db.WithContext(ctx).Model(&model.Teacher{}).
		Where("teacher_id = ? AND (subject1_id = ? OR subject2_id = ?)", teacherID, *subjectID, *subjectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *assignmentRepository) ListTeacherClassIDs(ctx context.Context, teacherID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.TeacherClass{}).
		Distinct("class_id").
		Where("teacher_id = ?", teacherID).
		Pluck("class_id", &ids).Error
	return ids, err
}

func (r *assignmentRepository) ListTeacherSubjectIDs(ctx context.Context, teacherID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.TeacherClass{}).
		Distinct("subject_id").
		Where("teacher_id = ? AND subject_id IS NOT NULL", teacherID).
		Pluck("subject_id", &ids).Error
	if err != nil {
		return nil, err
	}

	var teacher model.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, "teacher_id = ?", teacherID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ids, nil
		}
		return nil, err
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, sid := range []*string{teacher.Subject1ID, teacher.Subject2ID} {
		if sid != nil && *sid != "" {
			if _, ok := seen[*sid]; !ok {
				ids = append(ids, *sid)
				seen[*sid] = struct{}{}
			}
		}
	}
	return ids, nil
}
