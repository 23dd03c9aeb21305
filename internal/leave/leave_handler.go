package leave

import (
	"net/http"

	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, op string, err error) {
	h.logger.Warn("http "+op+" leave validation failed", zap.Error(err))
	response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Input tidak valid", err.Error())
}

// respond writes resp with status, or the mapped service error.
func (h *Handler) respond(c *gin.Context, status int, resp LeaveResponse, err error) {
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, status, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "create", err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString("tenant_id"), c.GetString("user_id"), req)
	h.respond(c, http.StatusCreated, resp, err)
}

func (h *Handler) GetAll(c *gin.Context) {
	var filter ListLeaveFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeBindError(c, "list", err)
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("tenant_id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("tenant_id"), c.Param("id"))
	h.respond(c, http.StatusOK, resp, err)
}

func (h *Handler) Summary(c *gin.Context) {
	var q LeaveSummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeBindError(c, "summary", err)
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), c.GetString("tenant_id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "update", err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.GetString("tenant_id"), c.Param("id"), req)
	h.respond(c, http.StatusOK, resp, err)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.GetString("tenant_id"), c.GetString("user_id"), c.Param("id"))
	h.respond(c, http.StatusOK, resp, err)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "reject", err)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), c.GetString("tenant_id"), c.GetString("user_id"), c.Param("id"), req.Reason)
	h.respond(c, http.StatusOK, resp, err)
}

func (h *Handler) Cancel(c *gin.Context) {
	resp, err := h.service.Cancel(c.Request.Context(), c.GetString("tenant_id"), c.GetString("user_id"), c.Param("id"))
	h.respond(c, http.StatusOK, resp, err)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString("tenant_id"), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
