package payroll_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-madrasah/internal/payroll"
	payrollerrors "go-madrasah/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	payroll.Service

	processFn  func(ctx context.Context, tenantID, actorID string, req payroll.ProcessRunRequest) (payroll.RunResponse, error)
	getAllFn   func(ctx context.Context, tenantID string, filter payroll.ListRunFilter) ([]payroll.RunResponse, error)
	rejectFn   func(ctx context.Context, tenantID, actorID, id, reason string) (payroll.RunResponse, error)
	lockFn     func(ctx context.Context, tenantID, actorID, id string) (payroll.RunResponse, error)
	markPaidFn func(ctx context.Context, tenantID, actorID, id string, req payroll.MarkPaidRequest) (payroll.RunResponse, error)
	exportFn   func(ctx context.Context, tenantID, runID string) ([]byte, string, error)
	deleteFn   func(ctx context.Context, tenantID, id string) error
}

func (f *fakePayrollService) Process(ctx context.Context, tenantID, actorID string, req payroll.ProcessRunRequest) (payroll.RunResponse, error) {
	return f.processFn(ctx, tenantID, actorID, req)
}

func (f *fakePayrollService) GetAll(ctx context.Context, tenantID string, filter payroll.ListRunFilter) ([]payroll.RunResponse, error) {
	return f.getAllFn(ctx, tenantID, filter)
}

func (f *fakePayrollService) Reject(ctx context.Context, tenantID, actorID, id, reason string) (payroll.RunResponse, error) {
	return f.rejectFn(ctx, tenantID, actorID, id, reason)
}

func (f *fakePayrollService) Lock(ctx context.Context, tenantID, actorID, id string) (payroll.RunResponse, error) {
	return f.lockFn(ctx, tenantID, actorID, id)
}

func (f *fakePayrollService) MarkPaid(ctx context.Context, tenantID, actorID, id string, req payroll.MarkPaidRequest) (payroll.RunResponse, error) {
	return f.markPaidFn(ctx, tenantID, actorID, id, req)
}

func (f *fakePayrollService) ExportXLSX(ctx context.Context, tenantID, runID string) ([]byte, string, error) {
	return f.exportFn(ctx, tenantID, runID)
}

func (f *fakePayrollService) Delete(ctx context.Context, tenantID, id string) error {
	return f.deleteFn(ctx, tenantID, id)
}

type fakeSetupService struct {
	payroll.SetupService

	getSettingsFn   func(ctx context.Context, tenantID string) (payroll.SettingsResponse, error)
	createAdvanceFn func(ctx context.Context, tenantID, actorID string, req payroll.AdvanceRequest) (payroll.AdvanceResponse, error)
}

func (f *fakeSetupService) GetSettings(ctx context.Context, tenantID string) (payroll.SettingsResponse, error) {
	return f.getSettingsFn(ctx, tenantID)
}

func (f *fakeSetupService) CreateAdvance(ctx context.Context, tenantID, actorID string, req payroll.AdvanceRequest) (payroll.AdvanceResponse, error) {
	return f.createAdvanceFn(ctx, tenantID, actorID, req)
}

func newTestContext(method, target, body, tenantID, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("tenant_id", tenantID)
	c.Set("user_id", userID)
	c.Set("role", "accountant")
	if body != "" {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		return c, w
	}
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestPayrollHandler_Process(t *testing.T) {
	tenantID := uuid.NewString()
	actorID := uuid.NewString()
	empID := uuid.NewString()

	svc := &fakePayrollService{
		processFn: func(ctx context.Context, tid, aid string, req payroll.ProcessRunRequest) (payroll.RunResponse, error) {
			assert.Equal(t, tenantID, tid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, 2026, req.Year)
			assert.Equal(t, []string{empID}, req.EmployeeIDs)
			return payroll.RunResponse{ID: uuid.NewString(), RunNumber: "PR-202602-001", Status: payroll.StatusDraft}, nil
		},
	}
	h := payroll.NewHandler(svc, &fakeSetupService{})

	c, w := newTestContext(http.MethodPost, "/payroll/runs", `{"year":2026,"month":2,"employee_ids":["`+empID+`"]}`, tenantID, actorID)
	h.Process(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"run_number":"PR-202602-001"`)

	c, w = newTestContext(http.MethodPost, "/payroll/runs", `{"year":2026,"month":13}`, tenantID, actorID)
	h.Process(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "Input tidak valid", env.Error.Message)

	svc.processFn = func(ctx context.Context, tid, aid string, req payroll.ProcessRunRequest) (payroll.RunResponse, error) {
		return payroll.RunResponse{}, payrollerrors.ErrRunExists
	}
	c, w = newTestContext(http.MethodPost, "/payroll/runs", `{"year":2026,"month":2}`, tenantID, actorID)
	h.Process(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	env = mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestPayrollHandler_GetAll(t *testing.T) {
	svc := &fakePayrollService{
		getAllFn: func(ctx context.Context, tid string, filter payroll.ListRunFilter) ([]payroll.RunResponse, error) {
			assert.Equal(t, 2026, filter.Year)
			assert.Equal(t, "LOCKED", filter.Status)
			return []payroll.RunResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
		},
	}
	h := payroll.NewHandler(svc, &fakeSetupService{})

	c, w := newTestContext(http.MethodGet, "/payroll/runs?year=2026&status=LOCKED&page=2&page_size=2", "", uuid.NewString(), uuid.NewString())
	h.GetAll(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPages":2`)
	assert.Contains(t, w.Body.String(), `"id":"c"`)
	assert.NotContains(t, w.Body.String(), `"id":"a"`)
}

func TestPayrollHandler_LifecycleErrors(t *testing.T) {
	runID := uuid.NewString()
	svc := &fakePayrollService{
		rejectFn: func(ctx context.Context, tid, aid, id, reason string) (payroll.RunResponse, error) {
			assert.Equal(t, runID, id)
			assert.Equal(t, "recount", reason)
			return payroll.RunResponse{ID: id, Status: payroll.StatusRejected}, nil
		},
		lockFn: func(ctx context.Context, tid, aid, id string) (payroll.RunResponse, error) {
			return payroll.RunResponse{}, payrollerrors.ErrInvalidStatusTransition
		},
		markPaidFn: func(ctx context.Context, tid, aid, id string, req payroll.MarkPaidRequest) (payroll.RunResponse, error) {
			assert.Equal(t, "nagad", req.PaymentMethod)
			return payroll.RunResponse{ID: id, Status: payroll.StatusPaid}, nil
		},
		deleteFn: func(ctx context.Context, tid, id string) error {
			return payrollerrors.ErrRunNotFound
		},
	}
	h := payroll.NewHandler(svc, &fakeSetupService{})
	params := gin.Params{{Key: "id", Value: runID}}

	c, w := newTestContext(http.MethodPost, "/payroll/runs/"+runID+"/reject", `{}`, uuid.NewString(), uuid.NewString())
	c.Params = params
	h.Reject(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodPost, "/payroll/runs/"+runID+"/reject", `{"reason":"recount"}`, uuid.NewString(), uuid.NewString())
	c.Params = params
	h.Reject(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"REJECTED"`)

	c, w = newTestContext(http.MethodPost, "/payroll/runs/"+runID+"/lock", "", uuid.NewString(), uuid.NewString())
	c.Params = params
	h.Lock(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	c, w = newTestContext(http.MethodPost, "/payroll/runs/"+runID+"/mark-paid", `{"payment_method":"paypal"}`, uuid.NewString(), uuid.NewString())
	c.Params = params
	h.MarkPaid(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodPost, "/payroll/runs/"+runID+"/mark-paid", `{"payment_method":"nagad"}`, uuid.NewString(), uuid.NewString())
	c.Params = params
	h.MarkPaid(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodDelete, "/payroll/runs/"+runID, "", uuid.NewString(), uuid.NewString())
	c.Params = params
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPayrollHandler_Export(t *testing.T) {
	runID := uuid.NewString()
	svc := &fakePayrollService{
		exportFn: func(ctx context.Context, tid, id string) ([]byte, string, error) {
			if id != runID {
				return nil, "", errors.New("boom")
			}
			return []byte("xlsx"), "payroll_PR-202602-001.xlsx", nil
		},
	}
	h := payroll.NewHandler(svc, &fakeSetupService{})

	c, w := newTestContext(http.MethodGet, "/payroll/runs/"+runID+"/export", "", uuid.NewString(), uuid.NewString())
	c.Params = gin.Params{{Key: "id", Value: runID}}
	h.Export(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=payroll_PR-202602-001.xlsx", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", w.Body.String())

	c, w = newTestContext(http.MethodGet, "/payroll/runs/other/export", "", uuid.NewString(), uuid.NewString())
	c.Params = gin.Params{{Key: "id", Value: "other"}}
	h.Export(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPayrollHandler_Setup(t *testing.T) {
	tenantID := uuid.NewString()
	actorID := uuid.NewString()
	setup := &fakeSetupService{
		getSettingsFn: func(ctx context.Context, tid string) (payroll.SettingsResponse, error) {
			assert.Equal(t, tenantID, tid)
			return payroll.SettingsResponse{WorkingDaysPerMonth: 26, UnrecordedDaysAsAbsent: true}, nil
		},
		createAdvanceFn: func(ctx context.Context, tid, aid string, req payroll.AdvanceRequest) (payroll.AdvanceResponse, error) {
			assert.Equal(t, actorID, aid)
			return payroll.AdvanceResponse{ID: uuid.NewString(), Amount: "6000.00", MonthlyDeduction: "2000.00"}, nil
		},
	}
	h := payroll.NewHandler(&fakePayrollService{}, setup)

	c, w := newTestContext(http.MethodGet, "/payroll/settings", "", tenantID, actorID)
	h.GetSettings(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"working_days_per_month":26`)

	body := `{"employee_id":"` + uuid.NewString() + `","amount":"6000","repayment_months":3,"start_year":2026,"start_month":3}`
	c, w = newTestContext(http.MethodPost, "/payroll/advances", body, tenantID, actorID)
	h.CreateAdvance(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"monthly_deduction":"2000.00"`)

	c, w = newTestContext(http.MethodPost, "/payroll/advances", `{"amount":"6000"}`, tenantID, actorID)
	h.CreateAdvance(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
