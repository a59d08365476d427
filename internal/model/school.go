package model

// Class 班级表 — 对应 classes
type Class struct {
	ClassID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	Name    string `gorm:"type:varchar(100);not null"                     json:"name"`
	Letter  string `gorm:"type:varchar(10);not null;default:''"           json:"letter"`
	BaseModel
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// Subject 科目表 — 对应 subjects
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Letter    string `gorm:"type:varchar(10);not null;default:''"           json:"letter"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// Teacher 教师表 — 对应 teachers
// Subject1/Subject2 为主讲科目，与 teacher_classes 一起构成任教授权事实
type Teacher struct {
	TeacherID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	FirstName  string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName   string  `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Subject1ID *string `gorm:"type:uuid"                                      json:"subject1_id,omitempty"`
	Subject2ID *string `gorm:"type:uuid"                                      json:"subject2_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// Student 学生表 — 对应 students
type Student struct {
	StudentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	FirstName string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	ClassID   string `gorm:"type:uuid;not null"                             json:"class_id"`
	BaseModel

	// 关联
	Class *Class `gorm:"foreignKey:ClassID;references:ClassID" json:"class,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// TeacherClass 教师任教关系表 — 对应 teacher_classes
// 授权事实：哪位教师可对哪个班级（及科目）操作；本模块只读
type TeacherClass struct {
	TeacherClassID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_class_id"`
	TeacherID      string  `gorm:"type:uuid;not null"                             json:"teacher_id"`
	ClassID        string  `gorm:"type:uuid;not null"                             json:"class_id"`
	SubjectID      *string `gorm:"type:uuid"                                      json:"subject_id,omitempty"`
}

// TableName 指定表名
func (TeacherClass) TableName() string { return "teacher_classes" }
