package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/rule-engine/config"
	"github.com/finance-tracker/rule-engine/internal/infra/dependency"
	"github.com/finance-tracker/rule-engine/internal/integration/persistence/model"
)

type apiFixture struct {
	engine   *gin.Engine
	injector *dependency.Injector
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.TransactionRuleModel{}, &model.TransactionModel{}))

	cfg := config.Load()
	cfg.Batch.Tracker = dependency.TrackerMemory
	cfg.Batch.StartsPerMinute = 0

	injector, err := dependency.NewInjector(cfg, db, func(context.Context) bool { return true }, nil)
	require.NoError(t, err)
	t.Cleanup(injector.StartBatch.Wait)

	return &apiFixture{
		engine:   injector.Router.Setup("test"),
		injector: injector,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w.Code, decoded
}

const foodRuleBody = `{
	"name": "Swiggy is food",
	"priority": 10,
	"conditions": [{"field": "MERCHANT", "operator": "CONTAINS", "value": "swiggy"}],
	"actions": [{"field": "CATEGORY", "action_type": "SET", "value": "Food"}]
}`

func TestHealthController(t *testing.T) {
	f := newAPIFixture(t)

	status, body := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["batch_tracker"])
}

func TestTransactionRuleController(t *testing.T) {
	f := newAPIFixture(t)

	status, created := f.do(t, http.MethodPost, "/api/v1/rules", foodRuleBody)
	require.Equal(t, http.StatusCreated, status)
	ruleID := created["id"].(string)

	t.Run("get", func(t *testing.T) {
		status, body := f.do(t, http.MethodGet, "/api/v1/rules/"+ruleID, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Swiggy is food", body["name"])
	})

	t.Run("invalid id", func(t *testing.T) {
		status, _ := f.do(t, http.MethodGet, "/api/v1/rules/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("validation error", func(t *testing.T) {
		status, body := f.do(t, http.MethodPost, "/api/v1/rules", `{
			"name": "Broken",
			"conditions": [{"field": "MERCHANT", "operator": "LESS_THAN", "value": "a"}],
			"actions": [{"field": "CATEGORY", "action_type": "SET", "value": "Food"}]
		}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "TRL-010006", body["code"])
	})

	t.Run("reorder", func(t *testing.T) {
		status, body := f.do(t, http.MethodPatch, "/api/v1/rules/reorder",
			`{"order": [{"id": "`+ruleID+`", "priority": 3}]}`)
		assert.Equal(t, http.StatusOK, status)
		rules := body["rules"].([]any)
		assert.Equal(t, float64(3), rules[0].(map[string]any)["priority"])
	})

	t.Run("preview", func(t *testing.T) {
		status, body := f.do(t, http.MethodPost, "/api/v1/rules/preview",
			`{"date": "2024-03-01", "amount": "99.90", "merchant": "SWIGGY"}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["matched"])
		assert.Equal(t, "Food", body["transaction"].(map[string]any)["category"])
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := f.do(t, http.MethodDelete, "/api/v1/rules/"+ruleID, "")
		assert.Equal(t, http.StatusNoContent, status)

		status, body := f.do(t, http.MethodDelete, "/api/v1/rules/"+ruleID, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "TRL-010001", body["code"])
	})
}

func TestTransactionController(t *testing.T) {
	f := newAPIFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/v1/rules", foodRuleBody)
	require.Equal(t, http.StatusCreated, status)

	status, body := f.do(t, http.MethodPost, "/api/v1/transactions",
		`{"date": "2024-03-01T10:30:00Z", "amount": "320.50", "merchant": "SWIGGY ORDER", "tags": ["upi", " upi "]}`)
	require.Equal(t, http.StatusCreated, status)

	tx := body["transaction"].(map[string]any)
	assert.Equal(t, "Food", tx["category"])
	assert.Equal(t, []any{"upi"}, tx["tags"])
	assert.NotEmpty(t, tx["matched_rule_id"])

	status, fetched := f.do(t, http.MethodGet, "/api/v1/transactions/"+tx["id"].(string), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, tx["id"], fetched["id"])

	status, list := f.do(t, http.MethodGet, "/api/v1/transactions?search=swiggy", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), list["pagination"].(map[string]any)["total"])

	t.Run("invalid date", func(t *testing.T) {
		status, body := f.do(t, http.MethodPost, "/api/v1/transactions", `{"date": "01/03/2024", "amount": "1", "merchant": "X"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "TXN-010002", body["code"])
	})

	t.Run("unknown transaction", func(t *testing.T) {
		status, body := f.do(t, http.MethodGet, "/api/v1/transactions/7c8a8d0e-0000-4000-8000-000000000000", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "TXN-010003", body["code"])
	})
}

func TestBatchRunController(t *testing.T) {
	f := newAPIFixture(t)

	status, created := f.do(t, http.MethodPost, "/api/v1/rules", foodRuleBody)
	require.Equal(t, http.StatusCreated, status)
	ruleID := created["id"].(string)

	// Store the history while the rule is inactive so ingest leaves it untouched.
	status, _ = f.do(t, http.MethodPatch, "/api/v1/rules/"+ruleID, `{"is_active": false}`)
	require.Equal(t, http.StatusOK, status)
	for _, merchant := range []string{"SWIGGY 1", "AMAZON", "SWIGGY 2"} {
		status, _ := f.do(t, http.MethodPost, "/api/v1/transactions",
			`{"date": "2024-03-01", "amount": "10", "merchant": "`+merchant+`"}`)
		require.Equal(t, http.StatusCreated, status)
	}

	status, started := f.do(t, http.MethodPost, "/api/v1/rules/"+ruleID+"/apply", "")
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "ALL", started["scope"])
	runID := started["run_id"].(string)

	f.injector.StartBatch.Wait()

	status, run := f.do(t, http.MethodGet, "/api/v1/batch-runs/"+runID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", run["status"])
	result := run["result"].(map[string]any)
	assert.Equal(t, float64(3), result["total_processed"])
	assert.Equal(t, float64(2), result["total_updated"])

	t.Run("cancel finished run", func(t *testing.T) {
		status, body := f.do(t, http.MethodPost, "/api/v1/batch-runs/"+runID+"/cancel", "")
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "BAT-020002", body["code"])
	})

	t.Run("invalid scope", func(t *testing.T) {
		status, body := f.do(t, http.MethodPost, "/api/v1/rules/"+ruleID+"/apply", `{"scope": "RECENT"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "BAT-010001", body["code"])
	})

	t.Run("unknown run", func(t *testing.T) {
		status, body := f.do(t, http.MethodGet, "/api/v1/batch-runs/7c8a8d0e-0000-4000-8000-000000000000", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "BAT-010003", body["code"])
	})
}
