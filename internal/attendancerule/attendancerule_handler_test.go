package attendancerule_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-madrasah/internal/attendancerule"
	ruleerrors "go-madrasah/internal/attendancerule/errors"

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

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeRuleService struct {
	attendancerule.Service
	createFn    func(ctx context.Context, tenantID, actorID string, req attendancerule.CreateRuleRequest) (attendancerule.RuleResponse, error)
	getByIDFn   func(ctx context.Context, tenantID, id string) (attendancerule.RuleResponse, error)
	effectiveFn func(ctx context.Context, tenantID string, in attendancerule.ResolveInput) attendancerule.RuleResponse
}

func (f *fakeRuleService) Create(ctx context.Context, tenantID, actorID string, req attendancerule.CreateRuleRequest) (attendancerule.RuleResponse, error) {
	return f.createFn(ctx, tenantID, actorID, req)
}

func (f *fakeRuleService) GetByID(ctx context.Context, tenantID, id string) (attendancerule.RuleResponse, error) {
	return f.getByIDFn(ctx, tenantID, id)
}

func (f *fakeRuleService) Effective(ctx context.Context, tenantID string, in attendancerule.ResolveInput) attendancerule.RuleResponse {
	return f.effectiveFn(ctx, tenantID, in)
}

func TestRuleHandler_Create(t *testing.T) {
	tenantID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeRuleService{
			createFn: func(ctx context.Context, tid, aid string, req attendancerule.CreateRuleRequest) (attendancerule.RuleResponse, error) {
				assert.Equal(t, tenantID, tid)
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "08:00", req.SchoolStartTime)
				return attendancerule.RuleResponse{ID: uuid.New().String(), RuleType: req.RuleType, SchoolStartTime: "08:00"}, nil
			},
		}

		h := attendancerule.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"rule_type":"general","late_threshold_minutes":10,"absent_threshold_minutes":45,"half_day_checkout_time":"12:30","school_start_time":"08:00","school_end_time":"14:00","excluded_days":["friday"]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance-rules", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("tenant_id", tenantID)
		c.Set("user_id", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("validation error", func(t *testing.T) {
		h := attendancerule.NewHandler(&fakeRuleService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance-rules", strings.NewReader(`{"rule_type":"weekly"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestRuleHandler_GetByID_NotFound(t *testing.T) {
	svc := &fakeRuleService{
		getByIDFn: func(ctx context.Context, tenantID, id string) (attendancerule.RuleResponse, error) {
			return attendancerule.RuleResponse{}, ruleerrors.ErrRuleNotFound
		},
	}
	h := attendancerule.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance-rules/x", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRuleHandler_Effective(t *testing.T) {
	svc := &fakeRuleService{
		effectiveFn: func(ctx context.Context, tenantID string, in attendancerule.ResolveInput) attendancerule.RuleResponse {
			assert.Equal(t, "morning", *in.Shift)
			assert.Nil(t, in.ClassID)
			return attendancerule.RuleResponse{IsDefault: true}
		},
	}
	h := attendancerule.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance-rules/effective?shift=morning", nil)

	h.Effective(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_default":true`)
}
