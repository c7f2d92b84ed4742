package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/helios/internal/models"
)

// MockCalculationRepository is a mock implementation of CalculationRepository for testing
type MockCalculationRepository struct {
	mock.Mock
}

func (m *MockCalculationRepository) Save(ctx context.Context, calc *models.SavedCalculation) error {
	args := m.Called(ctx, calc)
	return args.Error(0)
}

func (m *MockCalculationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SavedCalculation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedCalculation), args.Error(1)
}

func (m *MockCalculationRepository) ListByUser(ctx context.Context, userKey string, limit int) ([]models.SavedCalculation, error) {
	args := m.Called(ctx, userKey, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedCalculation), args.Error(1)
}

// MockRecorder is a mock implementation of CalculationRecorder for testing
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(id uuid.UUID, userKey string, inputs models.SolarInputParams, results models.CalculationResult) bool {
	args := m.Called(id, userKey, inputs, results)
	return args.Bool(0)
}

// MockResolver is a mock implementation of IrradianceResolver for testing
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, coords models.Coordinates) models.SolarIrradianceData {
	args := m.Called(ctx, coords)
	return args.Get(0).(models.SolarIrradianceData)
}
