package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/service"
	"smartschool/backend/pkg/response"
)

// SessionHandler 签到场次接口
type SessionHandler struct {
	sessions service.SessionService
	logger   *zap.Logger
}

// NewSessionHandler 创建场次处理器
func NewSessionHandler(sessions service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// Create POST /api/v1/attendance/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "请求参数错误")
		return
	}
	resp, err := h.sessions.Create(c.Request.Context(), mustGetPrincipal(c), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.Created(c, resp)
}

// List GET /api/v1/attendance/sessions
func (h *SessionHandler) List(c *gin.Context) {
	var req dto.ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "查询参数错误")
		return
	}
	resp, err := h.sessions.List(c.Request.Context(), mustGetPrincipal(c), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKCount(c, "success", len(resp), resp)
}

// Get GET /api/v1/attendance/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	resp, err := h.sessions.Get(c.Request.Context(), mustGetPrincipal(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Update PUT /api/v1/attendance/sessions/:id
func (h *SessionHandler) Update(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "请求参数错误")
		return
	}
	resp, err := h.sessions.Update(c.Request.Context(), mustGetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// SetStatus PUT /api/v1/attendance/sessions/:id/status
func (h *SessionHandler) SetStatus(c *gin.Context) {
	var req dto.SetSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "请求参数错误")
		return
	}
	resp, err := h.sessions.SetStatus(c.Request.Context(), mustGetPrincipal(c), c.Param("id"), req.Status)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/attendance/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), mustGetPrincipal(c), c.Param("id")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OKMessage(c, "场次及其签到记录已删除")
}
