package attendance

import (
	"net/http"

	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	reports ReportService
	logger  *zap.Logger
}

func NewHandler(service Service, reports ReportService, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, reports: reports, logger: l}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{UserID: c.GetString("user_id"), Role: c.GetString("role")}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) bindError(c *gin.Context, op string, err error) {
	h.logger.Warn("http "+op+" validation failed", zap.Error(err))
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
}

func (h *Handler) MarkManual(c *gin.Context) {
	var req ManualRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "mark attendance", err)
		return
	}
	resp, err := h.service.MarkManual(c.Request.Context(), c.GetString("tenant_id"), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) MarkBulk(c *gin.Context) {
	var req BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "bulk attendance", err)
		return
	}
	resp, err := h.service.MarkBulk(c.Request.Context(), c.GetString("tenant_id"), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	var req EditAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "edit attendance", err)
		return
	}
	resp, err := h.service.Edit(c.Request.Context(), c.GetString("tenant_id"), actorFrom(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	status := http.StatusOK
	if resp.RequiresApproval {
		status = http.StatusAccepted
	}
	response.Success(c, status, resp, nil)
}

func (h *Handler) ListEditRequests(c *gin.Context) {
	var filter ListEditRequestsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.bindError(c, "list edit requests", err)
		return
	}
	resp, err := h.service.ListEditRequests(c.Request.Context(), c.GetString("tenant_id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ApproveEditRequest(c *gin.Context) {
	resp, err := h.service.ApproveEditRequest(c.Request.Context(), c.GetString("tenant_id"), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RejectEditRequest(c *gin.Context) {
	var req RejectEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "reject edit request", err)
		return
	}
	resp, err := h.service.RejectEditRequest(c.Request.Context(), c.GetString("tenant_id"), actorFrom(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListAuditLogs(c *gin.Context) {
	var filter AuditLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.bindError(c, "list audit logs", err)
		return
	}
	resp, err := h.service.ListAuditLogs(c.Request.Context(), c.GetString("tenant_id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var filter ListAttendanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.bindError(c, "list attendance", err)
		return
	}
	filter.Page, filter.PageSize = response.PageParams(c)

	resp, total, err := h.service.GetAll(c.Request.Context(), c.GetString("tenant_id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("tenant_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "check in", err)
		return
	}
	resp, err := h.service.CheckIn(c.Request.Context(), c.GetString("tenant_id"), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "check out", err)
		return
	}
	resp, err := h.service.CheckOut(c.Request.Context(), c.GetString("tenant_id"), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "preview attendance", err)
		return
	}
	resp, err := h.service.Preview(c.Request.Context(), c.GetString("tenant_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SyncOffline(c *gin.Context) {
	var batch SyncBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		h.bindError(c, "offline sync", err)
		return
	}
	resp, err := h.service.SyncOffline(c.Request.Context(), c.GetString("tenant_id"), actorFrom(c), batch)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DailyReport(c *gin.Context) {
	resp, err := h.reports.Daily(c.Request.Context(), c.GetString("tenant_id"), c.Query("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthlyReport(c *gin.Context) {
	var q MonthlyReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, "monthly report", err)
		return
	}
	resp, err := h.reports.Monthly(c.Request.Context(), c.GetString("tenant_id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportMonthlyReport(c *gin.Context) {
	var q MonthlyReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, "export monthly report", err)
		return
	}
	body, filename, err := h.reports.ExportMonthlyXLSX(c.Request.Context(), c.GetString("tenant_id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, body)
}

func (h *Handler) ClassWiseReport(c *gin.Context) {
	resp, err := h.reports.ClassWise(c.Request.Context(), c.GetString("tenant_id"), c.Query("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RiskInsights(c *gin.Context) {
	resp, err := h.reports.RiskInsights(c.Request.Context(), c.GetString("tenant_id"), c.DefaultQuery("period", "month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
