package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/service"
	"smartschool/backend/pkg/response"
)

// RecordHandler 签到记录接口
type RecordHandler struct {
	records service.RecordService
	logger  *zap.Logger
}

// NewRecordHandler 创建签到记录处理器
func NewRecordHandler(records service.RecordService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{records: records, logger: logger}
}

// ListBySession GET /api/v1/attendance/session/:sessionId
func (h *RecordHandler) ListBySession(c *gin.Context) {
	resp, err := h.records.ListBySession(c.Request.Context(), mustGetPrincipal(c), c.Param("sessionId"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKCount(c, "success", len(resp), resp)
}

// Batch POST /api/v1/attendance/session/:sessionId/batch
func (h *RecordHandler) Batch(c *gin.Context) {
	var req dto.BatchRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeRecordValidation, "records 必须为数组")
		return
	}
	count, err := h.records.RecordBatch(c.Request.Context(), mustGetPrincipal(c), c.Param("sessionId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKCount(c, "签到记录已保存", count, nil)
}
