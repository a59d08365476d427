package model

import (
	"fmt"
	"strings"
	"time"
)

// SessionStatus 签到场次状态
type SessionStatus string

const (
	SessionOpen    SessionStatus = "open"
	SessionPending SessionStatus = "pending"
	SessionClosed  SessionStatus = "closed"
)

// ParseSessionStatus 解析状态字符串
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch SessionStatus(strings.ToLower(strings.TrimSpace(s))) {
	case SessionOpen:
		return SessionOpen, nil
	case SessionPending:
		return SessionPending, nil
	case SessionClosed:
		return SessionClosed, nil
	default:
		return "", fmt.Errorf("无效的场次状态: %q", s)
	}
}

// AttendanceSession 签到场次表 — 对应 attendance_sessions
// StartTime/EndTime 为 "HH:MM" 字符串，按字典序即可比较先后
type AttendanceSession struct {
	SessionID   string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	Name        string        `gorm:"type:varchar(200);not null"                     json:"name"`
	SessionDate time.Time     `gorm:"type:date;not null"                             json:"session_date"`
	ClassID     string        `gorm:"type:uuid;not null"                             json:"class_id"`
	SubjectID   *string       `gorm:"type:uuid"                                      json:"subject_id,omitempty"`
	StartTime   string        `gorm:"type:varchar(5)"                                json:"start_time"`
	EndTime     string        `gorm:"type:varchar(5)"                                json:"end_time"`
	Status      SessionStatus `gorm:"type:varchar(10);not null;default:'open'"       json:"status"`
	CreatedBy   string        `gorm:"type:uuid;not null"                             json:"created_by"` // 创建者的角色限定 ID
	CreatorRole Role          `gorm:"type:varchar(20);not null"                      json:"creator_role"`
	BaseModel

	// 关联
	Class   *Class   `gorm:"foreignKey:ClassID;references:ClassID"     json:"class,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (AttendanceSession) TableName() string { return "attendance_sessions" }

// Overlaps 判断与另一时间段是否严格重叠（相切的端点不算）
func (s *AttendanceSession) Overlaps(start, end string) bool {
	return s.StartTime < end && s.EndTime > start
}
