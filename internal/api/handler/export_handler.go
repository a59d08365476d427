package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/service"
	"smartschool/backend/pkg/response"
)

// ExportHandler 报表导出接口
type ExportHandler struct {
	exports service.ExportService
	logger  *zap.Logger
}

// NewExportHandler 创建导出处理器
func NewExportHandler(exports service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exports: exports, logger: logger}
}

// ClassReportXLSX GET /api/v1/attendance/class/:id/report/export
func (h *ExportHandler) ClassReportXLSX(c *gin.Context) {
	var q dto.ClassReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "查询参数错误")
		return
	}
	data, filename, err := h.exports.ClassReportXLSX(c.Request.Context(), mustGetPrincipal(c), c.Param("id"), &q)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ClassCalendarICS GET /api/v1/attendance/class/:id/calendar
func (h *ExportHandler) ClassCalendarICS(c *gin.Context) {
	data, filename, err := h.exports.ClassCalendarICS(c.Request.Context(), mustGetPrincipal(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(data))
}
