package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartschool/backend/internal/service"
	"smartschool/backend/pkg/response"
)

// StatusHandler 签到状态字典接口
type StatusHandler struct {
	statuses service.StatusService
	logger   *zap.Logger
}

// NewStatusHandler 创建状态字典处理器
func NewStatusHandler(statuses service.StatusService, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{statuses: statuses, logger: logger}
}

// List GET /api/v1/attendance/statuses
func (h *StatusHandler) List(c *gin.Context) {
	resp, err := h.statuses.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKCount(c, "success", len(resp), resp)
}
