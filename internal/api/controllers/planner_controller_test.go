package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
)

type stubPlannerService struct {
	got    request_models.PlanTourRequest
	called bool
}

func (s *stubPlannerService) PlanTour(_ context.Context, req request_models.PlanTourRequest) (response_models.PlanResult, error) {
	s.called = true
	s.got = req
	return response_models.PlanResult{
		Timeline:     []response_models.TimelineEvent{},
		Days:         []response_models.DaySummary{},
		ExcludedPOIs: []response_models.ExcludedPOI{},
		TotalDays:    1,
		FinishTime:   "18:00",
	}, nil
}

func newPlanRouter(svc *stubPlannerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/tours/plan", NewPlannerController(svc).PlanTour)
	return r
}

func TestPlanTourEndpoint(t *testing.T) {
	svc := &stubPlannerService{}
	router := newPlanRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{
		"attraction_ids": []string{"11111111-1111-1111-1111-111111111111"},
		"start_lat":      21.0285,
		"start_lon":      105.8542,
		"start_time":     "01/05/2026 08:00",
		"end_time":       "01/05/2026 21:00",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tours/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, svc.called)
	require.Equal(t, 21.0285, svc.got.StartLat)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			TotalDays int `json:"total_days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.Equal(t, 1, resp.Data.TotalDays)
}

func TestPlanTourEndpointRejectsMissingFields(t *testing.T) {
	svc := &stubPlannerService{}
	router := newPlanRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tours/plan", bytes.NewReader([]byte(`{"start_lat": 21.0}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, svc.called)
}
