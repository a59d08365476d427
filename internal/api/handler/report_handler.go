package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/service"
	"smartschool/backend/pkg/response"
)

// ReportHandler 统计与报表接口
type ReportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reports service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// StudentSummary GET /api/v1/attendance/student/:id/summary
func (h *ReportHandler) StudentSummary(c *gin.Context) {
	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "查询参数错误")
		return
	}
	resp, err := h.reports.StudentSummary(c.Request.Context(), mustGetPrincipal(c), c.Param("id"), q.Month)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKCount(c, "success", len(resp), resp)
}

// ClassReport GET /api/v1/attendance/class/:id/report
func (h *ReportHandler) ClassReport(c *gin.Context) {
	var q dto.ClassReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "查询参数错误")
		return
	}
	resp, err := h.reports.ClassReport(c.Request.Context(), mustGetPrincipal(c), c.Param("id"), &q)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// SessionPrint GET /api/v1/attendance/sessions/:id/print
func (h *ReportHandler) SessionPrint(c *gin.Context) {
	resp, err := h.reports.SessionReport(c.Request.Context(), mustGetPrincipal(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// PrintAll GET /api/v1/attendance/sessions/print/all
func (h *ReportHandler) PrintAll(c *gin.Context) {
	var q dto.PrintAllQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "查询参数错误")
		return
	}
	resp, err := h.reports.PrintAll(c.Request.Context(), mustGetPrincipal(c), &q)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKCount(c, "success", len(resp), resp)
}

// DailyStats GET /api/v1/attendance/stats/daily
func (h *ReportHandler) DailyStats(c *gin.Context) {
	var q dto.DailyStatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "查询参数错误")
		return
	}
	resp, err := h.reports.DailyStats(c.Request.Context(), mustGetPrincipal(c), &q)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKCount(c, "success", len(resp), resp)
}

// MonthlyStats GET /api/v1/attendance/stats/monthly
func (h *ReportHandler) MonthlyStats(c *gin.Context) {
	var q dto.MonthlyStatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "查询参数错误")
		return
	}
	resp, err := h.reports.MonthlyStats(c.Request.Context(), mustGetPrincipal(c), &q)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKCount(c, "success", len(resp), resp)
}

// UserResources GET /api/v1/attendance/user-resources
func (h *ReportHandler) UserResources(c *gin.Context) {
	resp, err := h.reports.UserResources(c.Request.Context(), mustGetPrincipal(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}
