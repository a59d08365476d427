package service

import (
	"context"

	"smartschool/backend/internal/model"
	"smartschool/backend/internal/repository"
)

// isCreator 判断主体是否为场次的原始创建者
// created_by 存的是角色限定 ID，必须连同 creator_role 一起比对
func isCreator(p model.Principal, session *model.AttendanceSession) bool {
	actorID, err := p.ActorID()
	if err != nil {
		return false
	}
	return session.CreatedBy == actorID && session.CreatorRole == p.Role
}

// canRead 判断主体对场次的读权限，纯函数
// teacherAssigned 为教师任教事实，仅 teacher 角色用到；
// 创建者教师即使任教关系被移除仍可读自己创建的场次
func canRead(p model.Principal, session *model.AttendanceSession, teacherAssigned bool) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RoleTeacher:
		return teacherAssigned || isCreator(p, session)
	case model.RoleClassRep, model.RoleStudent:
		return p.ClassID == session.ClassID
	default:
		return false
	}
}

// canWrite 判断主体对已存在场次的写权限，纯函数
// 教师：任教或创建者；班代：本班且创建者；student 无任何写权限
func canWrite(p model.Principal, session *model.AttendanceSession, teacherAssigned bool) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RoleTeacher:
		return teacherAssigned || isCreator(p, session)
	case model.RoleClassRep:
		return p.ClassID == session.ClassID && isCreator(p, session)
	case model.RoleStudent:
		return false
	default:
		return false
	}
}

// canCreate 判断主体能否在某班级新建场次，纯函数
// 尚无创建者事实可查，按目标班级判定：教师须任教，班代须本班
func canCreate(p model.Principal, classID string, teacherAssigned bool) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RoleTeacher:
		return teacherAssigned
	case model.RoleClassRep:
		return p.ClassID == classID
	case model.RoleStudent:
		return false
	default:
		return false
	}
}

// PermissionEvaluator 权限评估器：每次调用即时取任教事实再做纯判定，
// 不缓存，事实变更即刻生效
type PermissionEvaluator struct {
	assignments repository.AssignmentRepository
}

// NewPermissionEvaluator 创建权限评估器
func NewPermissionEvaluator(assignments repository.AssignmentRepository) *PermissionEvaluator {
	return &PermissionEvaluator{assignments: assignments}
}

func (e *PermissionEvaluator) teacherAssigned(ctx context.Context, p model.Principal, classID string, subjectID *string) (bool, error) {
	if p.Role != model.RoleTeacher {
		return false, nil
	}
	return e.assignments.IsTeacherAssigned(ctx, p.TeacherID, classID, subjectID)
}

// CanRead 判断主体能否读取该场次及其记录
func (e *PermissionEvaluator) CanRead(ctx context.Context, p model.Principal, session *model.AttendanceSession) (bool, error) {
	assigned, err := e.teacherAssigned(ctx, p, session.ClassID, session.SubjectID)
	if err != nil {
		return false, err
	}
	return canRead(p, session, assigned), nil
}

// CanWrite 判断主体能否修改该场次及其记录
func (e *PermissionEvaluator) CanWrite(ctx context.Context, p model.Principal, session *model.AttendanceSession) (bool, error) {
	assigned, err := e.teacherAssigned(ctx, p, session.ClassID, session.SubjectID)
	if err != nil {
		return false, err
	}
	return canWrite(p, session, assigned), nil
}

// CanCreate 判断主体能否在该班级（及科目）下新建场次
func (e *PermissionEvaluator) CanCreate(ctx context.Context, p model.Principal, classID string, subjectID *string) (bool, error) {
	assigned, err := e.teacherAssigned(ctx, p, classID, subjectID)
	if err != nil {
		return false, err
	}
	return canCreate(p, classID, assigned), nil
}

// CanAccessClass 判断主体能否读取某班级的聚合数据
func (e *PermissionEvaluator) CanAccessClass(ctx context.Context, p model.Principal, classID string) (bool, error) {
	switch p.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RoleTeacher:
		return e.assignments.IsTeacherAssigned(ctx, p.TeacherID, classID, nil)
	case model.RoleClassRep, model.RoleStudent:
		return p.ClassID == classID, nil
	default:
		return false, nil
	}
}
