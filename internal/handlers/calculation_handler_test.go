package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/helios/internal/engine"
	apierrors "github.com/stwalsh4118/helios/internal/errors"
	"github.com/stwalsh4118/helios/internal/logger"
	"github.com/stwalsh4118/helios/internal/middleware"
	"github.com/stwalsh4118/helios/internal/models"
	"github.com/stwalsh4118/helios/internal/services"
)

// MockCalculationService is a mock implementation of CalculationService for testing
type MockCalculationService struct {
	mock.Mock
}

func (m *MockCalculationService) Calculate(ctx context.Context, userKey string, params models.SolarInputParams) (*models.CalculationResult, error) {
	args := m.Called(ctx, userKey, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalculationResult), args.Error(1)
}

func (m *MockCalculationService) GetCalculation(ctx context.Context, id string) (*models.SavedCalculation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedCalculation), args.Error(1)
}

func (m *MockCalculationService) ListCalculations(ctx context.Context, userKey string, limit int) ([]models.SavedCalculation, error) {
	args := m.Called(ctx, userKey, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedCalculation), args.Error(1)
}

func (m *MockCalculationService) Catalog() engine.Catalog {
	args := m.Called()
	return args.Get(0).(engine.Catalog)
}

func setupCalculationRouter(svc services.CalculationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	health := NewHealthHandler(nil, "test", "latitude-estimate")
	return NewRouter(logger.Nop(), []string{"http://localhost:3000"}, health, NewCalculationHandler(svc))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorDetail {
	t.Helper()
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func postCalculation(router *gin.Engine, body string, userKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if userKey != "" {
		req.Header.Set(middleware.UserKeyHeader, userKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCalculationHandler_Create_Success(t *testing.T) {
	svc := new(MockCalculationService)
	router := setupCalculationRouter(svc)

	result := &models.CalculationResult{
		CalculationID: "6a1f4c1e-8d5e-4b44-9a0e-2f1b8c7d6e5f",
		System:        models.SystemSpec{SystemSizeKw: 7.48, PanelsNeeded: 17},
	}

	svc.On("Calculate", mock.Anything, "household-42", mock.MatchedBy(func(p models.SolarInputParams) bool {
		return p.MonthlyKwh == 900 &&
			p.ElectricityRate == 0.14 &&
			p.PanelType == models.PanelRECAlpha430 &&
			p.ShadingLevel == models.ShadingLight &&
			p.Coordinates != nil && p.Coordinates.Lat == 33.45 &&
			p.RoofTilt != nil && *p.RoofTilt == 25 &&
			p.HasEV
	})).Return(result, nil)

	body := `{
		"address": "123 Main St, Phoenix, AZ 85004",
		"monthlyKwh": 900,
		"electricityRate": 0.14,
		"panelType": "rec-alpha-430",
		"shadingLevel": "light",
		"roofTilt": 25,
		"hasEv": true,
		"coordinates": {"lat": 33.45, "lon": -112.07}
	}`
	w := postCalculation(router, body, "household-42")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CalculationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, result.CalculationID, resp.CalculationID)
	assert.Equal(t, 17, resp.System.PanelsNeeded)
	svc.AssertExpectations(t)
}

func TestCalculationHandler_Create_AnonymousAndUnknownKeys(t *testing.T) {
	svc := new(MockCalculationService)
	router := setupCalculationRouter(svc)

	svc.On("Calculate", mock.Anything, middleware.AnonymousUserKey, mock.MatchedBy(func(p models.SolarInputParams) bool {
		return p.PanelType == models.DefaultPanelType && p.Coordinates != nil && p.Coordinates.Lat == 512
	})).Return(&models.CalculationResult{}, nil)

	// Unknown catalog keys and out-of-range coordinates are not rejected.
	w := postCalculation(router, `{"monthlyKwh": 500, "electricityRate": 0.1, "panelType": "acme-9000", "coordinates": {"lat": 512, "lon": 0}}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCalculationHandler_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "negative usage", body: `{"monthlyKwh": -1, "electricityRate": 0.1}`, field: "monthlyKwh"},
		{name: "absurd rate", body: `{"monthlyKwh": 500, "electricityRate": 25}`, field: "electricityRate"},
		{name: "tilt above vertical", body: `{"monthlyKwh": 500, "electricityRate": 0.1, "roofTilt": 120}`, field: "roofTilt"},
		{name: "azimuth out of range", body: `{"monthlyKwh": 500, "electricityRate": 0.1, "roofAzimuth": -5}`, field: "roofAzimuth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCalculationService)
			router := setupCalculationRouter(svc)

			w := postCalculation(router, tt.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			detail := decodeError(t, w)
			assert.Equal(t, apierrors.ErrValidation, detail.Code)
			assert.Contains(t, detail.Details, tt.field)
			svc.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCalculationHandler_Create_MalformedBody(t *testing.T) {
	svc := new(MockCalculationService)
	router := setupCalculationRouter(svc)

	w := postCalculation(router, `{"monthlyKwh": "lots"`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrBadRequest, decodeError(t, w).Code)
}

func TestCalculationHandler_Create_ServiceErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "calculation error",
			err:            &engine.CalculationError{Stage: "catalog", Err: engine.ErrInvalidCatalog},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   apierrors.ErrCalculation,
		},
		{
			name:           "unexpected error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apierrors.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCalculationService)
			router := setupCalculationRouter(svc)
			svc.On("Calculate", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postCalculation(router, `{"monthlyKwh": 500, "electricityRate": 0.1}`, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
		})
	}
}

func TestCalculationHandler_Get(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		saved          *models.SavedCalculation
		err            error
		expectedStatus int
	}{
		{name: "found", saved: &models.SavedCalculation{ID: id, UserKey: "u1"}, expectedStatus: http.StatusOK},
		{name: "invalid id", err: services.ErrInvalidCalculationID, expectedStatus: http.StatusBadRequest},
		{name: "not found", err: services.ErrCalculationNotFound, expectedStatus: http.StatusNotFound},
		{name: "history disabled", err: services.ErrHistoryDisabled, expectedStatus: http.StatusNotFound},
		{name: "database failure", err: errors.New("connection reset"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCalculationService)
			router := setupCalculationRouter(svc)
			if tt.saved != nil {
				svc.On("GetCalculation", mock.Anything, id.String()).Return(tt.saved, nil)
			} else {
				svc.On("GetCalculation", mock.Anything, id.String()).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/calculations/"+id.String(), nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.saved != nil {
				var resp models.SavedCalculation
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, id, resp.ID)
			}
		})
	}
}

func TestCalculationHandler_List(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		svc := new(MockCalculationService)
		router := setupCalculationRouter(svc)
		svc.On("ListCalculations", mock.Anything, "u1", 0).Return([]models.SavedCalculation{
			{ID: uuid.New(), UserKey: "u1"},
			{ID: uuid.New(), UserKey: "u1"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/calculations", nil)
		req.Header.Set(middleware.UserKeyHeader, "u1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp ListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Count)
		assert.Len(t, resp.Calculations, 2)
	})

	t.Run("explicit limit", func(t *testing.T) {
		svc := new(MockCalculationService)
		router := setupCalculationRouter(svc)
		svc.On("ListCalculations", mock.Anything, middleware.AnonymousUserKey, 5).Return([]models.SavedCalculation{}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/calculations?limit=5", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("limit out of range", func(t *testing.T) {
		svc := new(MockCalculationService)
		router := setupCalculationRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/calculations?limit=500", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrValidation, decodeError(t, w).Code)
	})

	t.Run("history disabled", func(t *testing.T) {
		svc := new(MockCalculationService)
		router := setupCalculationRouter(svc)
		svc.On("ListCalculations", mock.Anything, mock.Anything, mock.Anything).Return(nil, services.ErrHistoryDisabled)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/calculations", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCalculationHandler_Catalog(t *testing.T) {
	svc := new(MockCalculationService)
	router := setupCalculationRouter(svc)
	svc.On("Catalog").Return(engine.DefaultCatalog())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "panels")
	assert.Contains(t, resp, "stateIncentives")
	assert.Contains(t, resp, "shadingLevels")
	assert.Contains(t, resp, "roofTypes")
}
