package dto

// ── 签到场次请求 ──

// CreateSessionRequest 创建场次请求
// 日期为 "2006-01-02"，时间为 "HH:MM"
type CreateSessionRequest struct {
	Name        string  `json:"name"         binding:"required,max=200"`
	SessionDate string  `json:"session_date" binding:"required,datetime=2006-01-02"`
	ClassID     string  `json:"class_id"     binding:"required,uuid"`
	SubjectID   *string `json:"subject_id"   binding:"omitempty,uuid"`
	StartTime   string  `json:"start_time"   binding:"omitempty,datetime=15:04"`
	EndTime     string  `json:"end_time"     binding:"omitempty,datetime=15:04"`
	Status      string  `json:"status"       binding:"omitempty,oneof=open pending closed"`
}

// ListSessionsRequest 场次列表过滤条件（与角色可见范围取交集）
type ListSessionsRequest struct {
	Date      string `form:"date"       binding:"omitempty,datetime=2006-01-02"`
	ClassID   string `form:"class_id"   binding:"omitempty,uuid"`
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
}

// UpdateSessionRequest 场次部分更新
// 刻意不含 status：状态变更只走 /status 端点，未知 JSON 字段会被直接忽略
type UpdateSessionRequest struct {
	Name        *string `json:"name"         binding:"omitempty,max=200"`
	SessionDate *string `json:"session_date" binding:"omitempty,datetime=2006-01-02"`
	SubjectID   *string `json:"subject_id"   binding:"omitempty,uuid"`
	StartTime   *string `json:"start_time"   binding:"omitempty,datetime=15:04"`
	EndTime     *string `json:"end_time"     binding:"omitempty,datetime=15:04"`
}

// SetSessionStatusRequest 场次状态变更请求
type SetSessionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ── 批量签到请求 ──

// BatchRecordEntry 单条签到提交项
// ClassID/AttendanceDate 缺省时回落到场次自身的值
type BatchRecordEntry struct {
	StudentID      string `json:"student_id"      binding:"required,uuid"`
	StatusID       string `json:"status_id"       binding:"required,uuid"`
	Notes          string `json:"notes"           binding:"omitempty,max=500"`
	ClassID        string `json:"class_id"        binding:"omitempty,uuid"`
	AttendanceDate string `json:"attendance_date" binding:"omitempty,datetime=2006-01-02"`
}

// BatchRecordRequest 整组替换某场次的签到名册
// Records 为指针以区分「缺失字段」与「合法的空数组」（空数组 = 清空名册）
type BatchRecordRequest struct {
	Records *[]BatchRecordEntry `json:"records" binding:"required"`
}

// ── 响应 ──

// SessionResponse 场次响应（含关联名称）
type SessionResponse struct {
	ID          string  `json:"session_id"`
	Name        string  `json:"name"`
	SessionDate string  `json:"session_date"`
	ClassID     string  `json:"class_id"`
	ClassName   string  `json:"class_name,omitempty"`
	SubjectID   *string `json:"subject_id,omitempty"`
	SubjectName string  `json:"subject_name,omitempty"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Status      string  `json:"status"`
	CreatedBy   string  `json:"created_by"`
	CreatorRole string  `json:"creator_role"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// RecordResponse 签到记录响应（含状态字典信息）
type RecordResponse struct {
	ID             string `json:"attendance_id"`
	StudentID      string `json:"student_id"`
	StudentName    string `json:"student_name,omitempty"`
	ClassID        string `json:"class_id"`
	SessionID      string `json:"session_id"`
	AttendanceDate string `json:"attendance_date"`
	StatusID       string `json:"status_id"`
	StatusCode     string `json:"status_code,omitempty"`
	StatusName     string `json:"status_name,omitempty"`
	StatusColor    string `json:"status_color,omitempty"`
	Notes          string `json:"notes"`
	RecordedBy     string `json:"recorded_by"`
	RecorderRole   string `json:"recorder_role"`
}

// StatusResponse 签到状态字典响应
type StatusResponse struct {
	ID    string `json:"status_id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// UserResourcesResponse 当前用户可见的班级/科目（用于前端下拉）
type UserResourcesResponse struct {
	Classes  []ClassBrief   `json:"classes"`
	Subjects []SubjectBrief `json:"subjects"`
	Role     string         `json:"role"`
}

// ClassBrief 班级简要信息
type ClassBrief struct {
	ID     string `json:"class_id"`
	Name   string `json:"name"`
	Letter string `json:"letter"`
}

// SubjectBrief 科目简要信息
type SubjectBrief struct {
	ID     string `json:"subject_id"`
	Name   string `json:"name"`
	Letter string `json:"letter"`
}
