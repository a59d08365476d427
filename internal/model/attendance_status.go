package model

// 签到状态码（attendance_status.code）
const (
	StatusCodePresent = "P"
	StatusCodeAbsent  = "A"
	StatusCodeLate    = "L"
	StatusCodeExcused = "E"
	StatusCodeHalfDay = "H"
	StatusCodeOther   = "O"
)

// AttendanceStatus 签到状态字典表 — 对应 attendance_status
// 由外部配置方维护，本模块只读
type AttendanceStatus struct {
	StatusID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"status_id"`
	Code     string `gorm:"type:varchar(2);not null;unique"                json:"code"`
	Name     string `gorm:"type:varchar(50);not null"                      json:"name"`
	Color    string `gorm:"type:varchar(20);not null"                      json:"color"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (AttendanceStatus) TableName() string { return "attendance_status" }
