package model

import (
	"errors"
	"fmt"
	"strings"
)

// Role 系统角色封闭枚举
// 权限判定处仅允许对这四个值做穷举分支，新增角色时编译期即可暴露遗漏
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTeacher  Role = "teacher"
	RoleClassRep Role = "classrep"
	RoleStudent  Role = "student"
)

// ParseRole 解析角色字符串，统一转小写后比较
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleClassRep:
		return RoleClassRep, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", fmt.Errorf("未知角色: %q", s)
	}
}

// String 实现 fmt.Stringer
func (r Role) String() string { return string(r) }

// ── 请求主体 ──

var (
	// ErrMalformedCredential 凭证缺少该角色必需的限定字段
	ErrMalformedCredential = errors.New("凭证缺少角色必需的身份字段")
	// ErrActorIdentityMissing 无法为该角色解析出有效操作者 ID
	ErrActorIdentityMissing = errors.New("无法解析该角色的操作者身份")
)

// Principal 认证请求主体，每个请求由已验证凭证构建一次，构建后不可变
type Principal struct {
	Role      Role
	UserID    string
	TeacherID string // 仅 teacher
	StudentID string // 仅 classrep / student
	ClassID   string // 仅 classrep / student
}

// NewPrincipal 由已验证的凭证字段构建 Principal
// 角色限定字段缺失时返回 ErrMalformedCredential
func NewPrincipal(roleStr, userID, teacherID, studentID, classID string) (Principal, error) {
	role, err := ParseRole(roleStr)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if userID == "" {
		return Principal{}, ErrMalformedCredential
	}

	switch role {
	case RoleAdmin:
		// admin 仅需 userID
	case RoleTeacher:
		if teacherID == "" {
			return Principal{}, ErrMalformedCredential
		}
	case RoleClassRep, RoleStudent:
		if studentID == "" || classID == "" {
			return Principal{}, ErrMalformedCredential
		}
	}

	return Principal{
		Role:      role,
		UserID:    userID,
		TeacherID: teacherID,
		StudentID: studentID,
		ClassID:   classID,
	}, nil
}

// ActorID 解析角色限定的操作者 ID
// admin → UserID；teacher → TeacherID；classrep/student → StudentID
func (p Principal) ActorID() (string, error) {
	switch p.Role {
	case RoleAdmin:
		if p.UserID != "" {
			return p.UserID, nil
		}
	case RoleTeacher:
		if p.TeacherID != "" {
			return p.TeacherID, nil
		}
	case RoleClassRep, RoleStudent:
		if p.StudentID != "" {
			return p.StudentID, nil
		}
	}
	return "", ErrActorIdentityMissing
}
