package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartschool/backend/internal/model"
	"smartschool/backend/internal/service"
	pkgerrors "smartschool/backend/pkg/errors"
	"smartschool/backend/pkg/response"
)

// Handlers 聚合所有 HTTP 处理器
type Handlers struct {
	Auth    *AuthHandler
	Session *SessionHandler
	Record  *RecordHandler
	Report  *ReportHandler
	Export  *ExportHandler
	Status  *StatusHandler
}

// New 创建处理器聚合
func New(services *service.Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(services.Auth, logger),
		Session: NewSessionHandler(services.Session, logger),
		Record:  NewRecordHandler(services.Record, logger),
		Report:  NewReportHandler(services.Report, logger),
		Export:  NewExportHandler(services.Export, logger),
		Status:  NewStatusHandler(services.Status, logger),
	}
}

// handleServiceError 将业务哨兵错误映射为 HTTP 响应，未识别的错误记日志后返回 500
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, response.CodeSessionNotFound, err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, response.CodeStudentNotFound, err.Error())
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, response.CodeClassNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, response.CodeForbidden, err.Error())
	case errors.Is(err, model.ErrActorIdentityMissing):
		response.Forbidden(c, response.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrSessionNotOpen):
		response.Forbidden(c, response.CodeSessionNotOpen, err.Error())
	case errors.Is(err, pkgerrors.ErrSlotConflict):
		response.Conflict(c, response.CodeSlotConflict, err.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, response.CodeInvalidStatus, err.Error())
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, response.CodeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrTokenRevoked):
		response.Unauthorized(c, response.CodeTokenRevoked, err.Error())
	default:
		logger.Error("请求处理失败",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		response.InternalError(c)
	}
}
