package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/helios/internal/engine"
	"github.com/stwalsh4118/helios/internal/logger"
	"github.com/stwalsh4118/helios/internal/models"
	"github.com/stwalsh4118/helios/internal/repository"
)

// Service-level errors
var (
	ErrCalculationNotFound  = errors.New("calculation not found")
	ErrInvalidCalculationID = errors.New("invalid calculation id")
	ErrHistoryDisabled      = errors.New("calculation history is disabled")
)

// IrradianceResolver supplies the solar resource for a location. It must
// always answer, degrading to an estimate when needed.
type IrradianceResolver interface {
	Resolve(ctx context.Context, coords models.Coordinates) models.SolarIrradianceData
}

// CalculationRecorder queues a calculation for saving.
type CalculationRecorder interface {
	Record(id uuid.UUID, userKey string, inputs models.SolarInputParams, results models.CalculationResult) bool
}

// CalculationService runs solar calculations and reads saved ones.
type CalculationService interface {
	// Calculate resolves irradiance, runs the engine and queues the result
	// for saving. It fails only when the engine reports a CalculationError.
	Calculate(ctx context.Context, userKey string, params models.SolarInputParams) (*models.CalculationResult, error)

	// GetCalculation returns ErrInvalidCalculationID for a malformed id and
	// ErrCalculationNotFound when nothing is stored under it.
	GetCalculation(ctx context.Context, id string) (*models.SavedCalculation, error)

	// ListCalculations returns the newest saved calculations for userKey.
	ListCalculations(ctx context.Context, userKey string, limit int) ([]models.SavedCalculation, error)

	// Catalog returns the equipment catalog calculations run against.
	Catalog() engine.Catalog
}

type calculationService struct {
	engine     *engine.Engine
	irradiance IrradianceResolver
	recorder   CalculationRecorder
	repo       repository.CalculationRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewCalculationService wires the calculation pipeline. recorder and repo
// may be nil when persistence is disabled.
func NewCalculationService(
	eng *engine.Engine,
	irradiance IrradianceResolver,
	recorder CalculationRecorder,
	repo repository.CalculationRepository,
	log *logger.Logger,
) CalculationService {
	return &calculationService{
		engine:     eng,
		irradiance: irradiance,
		recorder:   recorder,
		repo:       repo,
		log:        log,
		now:        time.Now,
	}
}

func (s *calculationService) Calculate(ctx context.Context, userKey string, params models.SolarInputParams) (*models.CalculationResult, error) {
	location := params.Location()
	if params.Coordinates != nil && !params.Coordinates.Valid() {
		s.log.Warn("Out of range coordinates replaced with default location", map[string]interface{}{
			"lat": params.Coordinates.Lat,
			"lon": params.Coordinates.Lon,
		})
	}

	irradiance := s.irradiance.Resolve(ctx, location)

	result, err := s.engine.Calculate(params, irradiance)
	if err != nil {
		s.log.Error("Solar calculation failed", err, map[string]interface{}{
			"user_key": userKey,
		})
		return nil, fmt.Errorf("failed to calculate: %w", err)
	}
	result.CalculatedAt = s.now().UTC()

	if s.recorder != nil {
		id := uuid.New()
		result.CalculationID = id.String()
		if !s.recorder.Record(id, userKey, params, *result) {
			result.CalculationID = ""
		}
	}

	s.log.Info("Solar calculation completed", map[string]interface{}{
		"user_key":          userKey,
		"calculation_id":    result.CalculationID,
		"irradiance_source": irradiance.Source,
		"system_size_kw":    result.System.SystemSizeKw,
		"panels":            result.System.PanelsNeeded,
		"net_cost":          result.Financial.NetCost,
	})

	return result, nil
}

func (s *calculationService) GetCalculation(ctx context.Context, id string) (*models.SavedCalculation, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}

	calcID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid calculation id provided", map[string]interface{}{"id": id})
		return nil, fmt.Errorf("%w: %q", ErrInvalidCalculationID, id)
	}

	calc, err := s.repo.FindByID(ctx, calcID)
	if err != nil {
		s.log.Error("Failed to query calculation", err, map[string]interface{}{"id": id})
		return nil, fmt.Errorf("failed to query calculation: %w", err)
	}
	if calc == nil {
		s.log.Debug("No calculation found", map[string]interface{}{"id": id})
		return nil, ErrCalculationNotFound
	}

	return calc, nil
}

func (s *calculationService) ListCalculations(ctx context.Context, userKey string, limit int) ([]models.SavedCalculation, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}

	calcs, err := s.repo.ListByUser(ctx, userKey, repository.ClampLimit(limit))
	if err != nil {
		s.log.Error("Failed to list calculations", err, map[string]interface{}{
			"user_key": userKey,
			"limit":    limit,
		})
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}

	s.log.Debug("Calculations listed", map[string]interface{}{
		"user_key": userKey,
		"count":    len(calcs),
	})
	return calcs, nil
}

func (s *calculationService) Catalog() engine.Catalog {
	return s.engine.Catalog()
}
