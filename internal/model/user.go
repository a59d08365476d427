package model

// User 登录账号表 — 对应 users
// TeacherID/StudentID 将账号关联到角色限定的实体
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(100);not null;unique"              json:"username"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null"                      json:"role"`
	TeacherID    *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	StudentID    *string `gorm:"type:uuid"                                      json:"student_id,omitempty"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
