package model

import "time"

// AttendanceRecord 签到记录表 — 对应 attendance
// 记录始终隶属于唯一场次，批量路径下整组替换、不单独增改
type AttendanceRecord struct {
	AttendanceID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	StudentID      string    `gorm:"type:uuid;not null"                             json:"student_id"`
	ClassID        string    `gorm:"type:uuid;not null"                             json:"class_id"`
	SessionID      string    `gorm:"type:uuid;not null"                             json:"session_id"`
	AttendanceDate time.Time `gorm:"type:date;not null"                             json:"attendance_date"`
	StatusID       string    `gorm:"type:uuid;not null"                             json:"status_id"`
	Notes          string    `gorm:"type:text;not null;default:''"                  json:"notes"`
	RecordedBy     string    `gorm:"type:uuid;not null"                             json:"recorded_by"`
	RecorderRole   Role      `gorm:"type:varchar(20);not null"                      json:"recorder_role"`
	BaseModel

	// 关联
	Status  *AttendanceStatus `gorm:"foreignKey:StatusID;references:StatusID"   json:"status,omitempty"`
	Student *Student          `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance" }
