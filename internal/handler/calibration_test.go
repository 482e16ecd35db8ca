package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safequest/engine/internal/calibration"
	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/repository"
	"github.com/safequest/engine/internal/storage"
)

// newCalibrationFixture wires a calibration service over a memory
// store with one rare helmet at level 2 and a funded balance.
func newCalibrationFixture(t *testing.T, rng calibration.RandFunc) (calibration.Service, *repository.KV) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewKV(storage.NewMemoryStore())
	cat := catalog.Default()

	def, ok := cat.ItemByID("sentinel-helmet")
	require.True(t, ok)
	cfg, ok := cat.CalibrationConfigFor(def.Rarity)
	require.True(t, ok)

	inst := domain.ItemInstance{
		InstanceID:  "inst-1",
		ItemID:      def.ID,
		Level:       2,
		SetID:       def.SetID,
		ActiveStats: calibration.ActiveStatsFor(def.BaseStats, 2, cfg),
	}
	require.NoError(t, repo.SaveInventory(ctx, "user1", domain.Inventory{Instances: []domain.ItemInstance{inst}}))
	require.NoError(t, repo.SavePoints(ctx, "user1", 10000))

	svc := calibration.NewService(repo, cat, concurrency.NewLockManager(), nil, rng)
	return svc, repo
}

func TestHandleCalibrationAttempt(t *testing.T) {
	svc, _ := newCalibrationFixture(t, func() float64 { return 0.0 })
	handler := HandleCalibrationAttempt(svc)

	body := `{"user_id":"user1","instance_id":"inst-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calibration/attempt", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result calibration.AttemptResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, calibration.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 600, result.Cost)
	assert.Equal(t, 3, result.LevelAfter)
	assert.Equal(t, 9400, result.Balance)
}

func TestHandleCalibrationAttempt_UnknownInstance(t *testing.T) {
	svc, _ := newCalibrationFixture(t, func() float64 { return 0.0 })
	handler := HandleCalibrationAttempt(svc)

	body := `{"user_id":"user1","instance_id":"ghost"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calibration/attempt", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgInstanceNotFoundError, resp.Error)
}

func TestHandleCalibrationAttempt_ValidationFailure(t *testing.T) {
	svc, _ := newCalibrationFixture(t, nil)
	handler := HandleCalibrationAttempt(svc)

	// Missing instance_id.
	body := `{"user_id":"user1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calibration/attempt", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgInvalidRequestSummary, resp.Error)
	assert.Contains(t, resp.Fields, "instanceid")
}

func TestHandleCalibrationAttempt_MalformedBody(t *testing.T) {
	svc, _ := newCalibrationFixture(t, nil)
	handler := HandleCalibrationAttempt(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/calibration/attempt", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()

	handler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCalibrationPreview(t *testing.T) {
	svc, _ := newCalibrationFixture(t, nil)
	handler := HandleCalibrationPreview(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calibration/preview?user_id=user1&instance_id=inst-1", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result calibration.PreviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 600, result.Cost)
	assert.True(t, result.CanCalibrate)
}

func TestHandleCalibrationPreview_MissingParam(t *testing.T) {
	svc, _ := newCalibrationFixture(t, nil)
	handler := HandleCalibrationPreview(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calibration/preview?user_id=user1", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
