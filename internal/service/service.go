package service

import (
	"errors"

	"go.uber.org/zap"

	"smartschool/backend/internal/repository"
	"smartschool/backend/pkg/jwt"
	"smartschool/backend/pkg/notifier"
	"smartschool/backend/pkg/redis"
)

// 业务哨兵错误，由 handler 映射为 HTTP 状态码
var (
	ErrSessionNotFound = errors.New("签到场次不存在")
	ErrStudentNotFound = errors.New("学生不存在")
	ErrClassNotFound   = errors.New("班级不存在")
	ErrForbidden       = errors.New("无权执行该操作")
	ErrSessionNotOpen  = errors.New("场次不在开放状态")
	ErrInvalidStatus   = errors.New("无效的场次状态")
	ErrValidation      = errors.New("请求数据校验失败")

	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrTokenRevoked       = errors.New("令牌已失效")
)

// Services 聚合所有业务服务
type Services struct {
	Auth    AuthService
	Session SessionService
	Record  RecordService
	Report  ReportService
	Export  ExportService
	Status  StatusService
}

// Deps 服务层依赖
type Deps struct {
	Repo     *repository.Repository
	JWT      *jwt.Manager
	Redis    *redis.Client
	Notifier notifier.Notifier
	Logger   *zap.Logger
}

// New 创建服务聚合
func New(d Deps) *Services {
	perm := NewPermissionEvaluator(d.Repo.Assignment)
	report := NewReportService(d.Repo, perm, d.Logger)
	return &Services{
		Auth:    NewAuthService(d.Repo.User, d.JWT, d.Redis, d.Logger),
		Session: NewSessionService(d.Repo, perm, d.Notifier, d.Logger),
		Record:  NewRecordService(d.Repo, perm, d.Notifier, d.Logger),
		Report:  report,
		Export:  NewExportService(report, d.Repo, perm, d.Logger),
		Status:  NewStatusService(d.Repo.Status),
	}
}
