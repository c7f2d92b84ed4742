package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/helios/internal/engine"
	"github.com/stwalsh4118/helios/internal/logger"
	"github.com/stwalsh4118/helios/internal/models"
	"github.com/stwalsh4118/helios/internal/repository"
	"github.com/stwalsh4118/helios/internal/utility"
)

var (
	phoenixCoords     = models.Coordinates{Lat: 33.45, Lon: -112.07}
	phoenixIrradiance = models.SolarIrradianceData{Source: "pvwatts", Annual: 5.6, CapacityFactor: 23.3}
	fixedNow          = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func phoenixParams() models.SolarInputParams {
	coords := phoenixCoords
	return models.SolarInputParams{
		Address:         "123 Main St, Phoenix, AZ 85004",
		Coordinates:     &coords,
		MonthlyKwh:      1000,
		ElectricityRate: 0.12,
	}
}

func newTestService(resolver IrradianceResolver, recorder CalculationRecorder, repo *MockCalculationRepository) *calculationService {
	eng := engine.New(engine.DefaultCatalog(), engine.WithUtilityLookup(utility.NewDirectory()))
	var r repository.CalculationRepository
	if repo != nil {
		r = repo
	}
	svc := NewCalculationService(eng, resolver, recorder, r, logger.Nop()).(*calculationService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCalculate_Success(t *testing.T) {
	resolver := new(MockResolver)
	recorder := new(MockRecorder)
	resolver.On("Resolve", mock.Anything, phoenixCoords).Return(phoenixIrradiance)
	recorder.On("Record", mock.AnythingOfType("uuid.UUID"), "household-42", phoenixParams(), mock.AnythingOfType("models.CalculationResult")).Return(true).Once()

	svc := newTestService(resolver, recorder, nil)
	result, err := svc.Calculate(context.Background(), "household-42", phoenixParams())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, fixedNow, result.CalculatedAt)
	assert.Equal(t, phoenixIrradiance, result.Irradiance)
	assert.Equal(t, 17, result.System.PanelsNeeded)
	assert.Equal(t, "Arizona Public Service", result.UtilityProvider)
	assert.Equal(t, "AZ", result.Financial.StateCode)

	id, err := uuid.Parse(result.CalculationID)
	require.NoError(t, err)

	recorded := recorder.Calls[0].Arguments
	assert.Equal(t, id, recorded.Get(0))
	assert.Equal(t, result.CalculationID, recorded.Get(3).(models.CalculationResult).CalculationID)
	resolver.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestCalculate_DroppedRecordClearsID(t *testing.T) {
	resolver := new(MockResolver)
	recorder := new(MockRecorder)
	resolver.On("Resolve", mock.Anything, phoenixCoords).Return(phoenixIrradiance)
	recorder.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false)

	result, err := newTestService(resolver, recorder, nil).Calculate(context.Background(), "anonymous", phoenixParams())

	require.NoError(t, err)
	assert.Empty(t, result.CalculationID)
}

func TestCalculate_NoRecorder(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, phoenixCoords).Return(phoenixIrradiance)

	result, err := newTestService(resolver, nil, nil).Calculate(context.Background(), "anonymous", phoenixParams())

	require.NoError(t, err)
	assert.Empty(t, result.CalculationID)
}

func TestCalculate_DefaultCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		coords *models.Coordinates
	}{
		{name: "missing", coords: nil},
		{name: "out of range", coords: &models.Coordinates{Lat: 123, Lon: -500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(MockResolver)
			resolver.On("Resolve", mock.Anything, models.DefaultCoordinates).
				Return(models.SolarIrradianceData{Source: "latitude-estimate", Annual: 5.26})

			params := phoenixParams()
			params.Coordinates = tt.coords

			result, err := newTestService(resolver, nil, nil).Calculate(context.Background(), "anonymous", params)
			require.NoError(t, err)
			assert.Equal(t, "latitude-estimate", result.Irradiance.Source)
			resolver.AssertExpectations(t)
		})
	}
}

func TestCalculate_DegenerateInputsSucceed(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(models.SolarIrradianceData{Annual: 0})

	params := models.SolarInputParams{MonthlyKwh: 0, ElectricityRate: 0, PanelType: "bogus"}
	result, err := newTestService(resolver, nil, nil).Calculate(context.Background(), "anonymous", params)

	require.NoError(t, err)
	assert.Zero(t, result.System.PanelsNeeded)
	assert.Zero(t, result.Financial.ROIYears)
}

func TestCalculate_InvalidCatalog(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(phoenixIrradiance)

	catalog := engine.DefaultCatalog()
	delete(catalog.Panels, models.DefaultPanelType)
	svc := NewCalculationService(engine.New(catalog), resolver, nil, nil, logger.Nop())

	result, err := svc.Calculate(context.Background(), "anonymous", phoenixParams())

	require.Error(t, err)
	assert.Nil(t, result)
	var calcErr *engine.CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.ErrorIs(t, err, engine.ErrInvalidCatalog)
}

func TestGetCalculation(t *testing.T) {
	id := uuid.New()
	saved := &models.SavedCalculation{ID: id, UserKey: "household-42"}

	t.Run("found", func(t *testing.T) {
		repo := new(MockCalculationRepository)
		repo.On("FindByID", mock.Anything, id).Return(saved, nil)

		calc, err := newTestService(new(MockResolver), nil, repo).GetCalculation(context.Background(), id.String())
		require.NoError(t, err)
		assert.Equal(t, saved, calc)
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockCalculationRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, nil)

		_, err := newTestService(new(MockResolver), nil, repo).GetCalculation(context.Background(), id.String())
		assert.ErrorIs(t, err, ErrCalculationNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		repo := new(MockCalculationRepository)

		_, err := newTestService(new(MockResolver), nil, repo).GetCalculation(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidCalculationID)
		repo.AssertNotCalled(t, "FindByID")
	})

	t.Run("database error", func(t *testing.T) {
		repo := new(MockCalculationRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, errors.New("connection reset"))

		_, err := newTestService(new(MockResolver), nil, repo).GetCalculation(context.Background(), id.String())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCalculationNotFound)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("history disabled", func(t *testing.T) {
		_, err := newTestService(new(MockResolver), nil, nil).GetCalculation(context.Background(), id.String())
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})
}

func TestListCalculations(t *testing.T) {
	t.Run("clamps limit", func(t *testing.T) {
		repo := new(MockCalculationRepository)
		calcs := []models.SavedCalculation{{ID: uuid.New()}, {ID: uuid.New()}}
		repo.On("ListByUser", mock.Anything, "household-42", 100).Return(calcs, nil)

		got, err := newTestService(new(MockResolver), nil, repo).ListCalculations(context.Background(), "household-42", 5000)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})

	t.Run("default limit", func(t *testing.T) {
		repo := new(MockCalculationRepository)
		repo.On("ListByUser", mock.Anything, "anonymous", 20).Return([]models.SavedCalculation{}, nil)

		got, err := newTestService(new(MockResolver), nil, repo).ListCalculations(context.Background(), "anonymous", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
		repo.AssertExpectations(t)
	})

	t.Run("database error", func(t *testing.T) {
		repo := new(MockCalculationRepository)
		repo.On("ListByUser", mock.Anything, "anonymous", 20).Return(nil, errors.New("timeout"))

		_, err := newTestService(new(MockResolver), nil, repo).ListCalculations(context.Background(), "anonymous", 0)
		require.Error(t, err)
	})

	t.Run("history disabled", func(t *testing.T) {
		_, err := newTestService(new(MockResolver), nil, nil).ListCalculations(context.Background(), "anonymous", 10)
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})
}

func TestCatalog(t *testing.T) {
	svc := newTestService(new(MockResolver), nil, nil)
	assert.Equal(t, engine.DefaultCatalog(), svc.Catalog())
}
