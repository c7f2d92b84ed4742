package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/helios/internal/errors"
	"github.com/stwalsh4118/helios/internal/engine"
	"github.com/stwalsh4118/helios/internal/middleware"
	"github.com/stwalsh4118/helios/internal/models"
	"github.com/stwalsh4118/helios/internal/services"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report JSON field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

// CalculationHandler handles calculation HTTP requests.
type CalculationHandler struct {
	service services.CalculationService
}

// NewCalculationHandler creates a new CalculationHandler instance.
func NewCalculationHandler(service services.CalculationService) *CalculationHandler {
	useJSONFieldNames()
	return &CalculationHandler{service: service}
}

// CalculationRequest is the POST body. Only structural bounds are enforced
// here; unknown catalog keys and unusable coordinates fall back to defaults.
type CalculationRequest struct {
	UtilityRates      *models.UtilityRates `json:"utilityRates"`
	Coordinates       *models.Coordinates  `json:"coordinates"`
	RoofArea          *float64             `json:"roofArea" binding:"omitempty,gte=0,lte=100000"`
	RoofTilt          *float64             `json:"roofTilt" binding:"omitempty,gte=0,lte=90"`
	RoofAzimuth       *float64             `json:"roofAzimuth" binding:"omitempty,gte=0,lte=360"`
	Address           string               `json:"address" binding:"max=500"`
	RoofAge           string               `json:"roofAge" binding:"max=50"`
	RoofType          models.RoofType      `json:"roofType"`
	ShadingLevel      models.ShadingLevel  `json:"shadingLevel"`
	PanelType         models.PanelType     `json:"panelType"`
	InverterType      models.InverterType  `json:"inverterType"`
	BatteryOption     models.BatteryOption `json:"batteryOption"`
	MonthlyKwh        float64              `json:"monthlyKwh" binding:"gte=0,lte=1000000"`
	ElectricityRate   float64              `json:"electricityRate" binding:"gte=0,lte=10"`
	HasPool           bool                 `json:"hasPool"`
	HasEV             bool                 `json:"hasEv"`
	PlanningAdditions bool                 `json:"planningAdditions"`
}

// Params converts the request to engine input.
func (r CalculationRequest) Params() models.SolarInputParams {
	return models.SolarInputParams{
		UtilityRates:      r.UtilityRates,
		Coordinates:       r.Coordinates,
		RoofArea:          r.RoofArea,
		RoofTilt:          r.RoofTilt,
		RoofAzimuth:       r.RoofAzimuth,
		Address:           r.Address,
		RoofAge:           r.RoofAge,
		RoofType:          r.RoofType,
		ShadingLevel:      r.ShadingLevel,
		PanelType:         r.PanelType,
		InverterType:      r.InverterType,
		BatteryOption:     r.BatteryOption,
		MonthlyKwh:        r.MonthlyKwh,
		ElectricityRate:   r.ElectricityRate,
		HasPool:           r.HasPool,
		HasEV:             r.HasEV,
		PlanningAdditions: r.PlanningAdditions,
	}
}

// ListRequest holds the query parameters for listing calculations.
type ListRequest struct {
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
}

// ListResponse is the body of GET /api/v1/calculations.
type ListResponse struct {
	Calculations []models.SavedCalculation `json:"calculations"`
	Count        int                       `json:"count"`
}

// CatalogResponse lists the equipment and option keys accepted by a calculation.
type CatalogResponse struct {
	engine.Catalog
	ShadingLevels []models.ShadingLevel `json:"shadingLevels"`
	RoofTypes     []models.RoofType     `json:"roofTypes"`
}

// Create handles POST /api/v1/calculations.
func (h *CalculationHandler) Create(c *gin.Context) {
	var req CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result, err := h.service.Calculate(c.Request.Context(), middleware.GetUserKey(c), req.Params())
	if err != nil {
		var calcErr *engine.CalculationError
		if errors.As(err, &calcErr) {
			apierrors.CalculationError(c, calcErr.Stage, err)
			return
		}
		apierrors.InternalServerError(c, "Failed to run calculation", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/calculations/:id.
func (h *CalculationHandler) Get(c *gin.Context) {
	calc, err := h.service.GetCalculation(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCalculationID):
			apierrors.BadRequest(c, "Calculation ID must be a UUID", nil)
		case errors.Is(err, services.ErrCalculationNotFound):
			apierrors.NotFound(c, "Calculation not found")
		case errors.Is(err, services.ErrHistoryDisabled):
			apierrors.NotFound(c, "Calculation history is disabled")
		default:
			apierrors.InternalServerError(c, "Failed to load calculation", err)
		}
		return
	}

	c.JSON(http.StatusOK, calc)
}

// List handles GET /api/v1/calculations for the calling user.
func (h *CalculationHandler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	calcs, err := h.service.ListCalculations(c.Request.Context(), middleware.GetUserKey(c), req.Limit)
	if err != nil {
		if errors.Is(err, services.ErrHistoryDisabled) {
			apierrors.NotFound(c, "Calculation history is disabled")
			return
		}
		apierrors.InternalServerError(c, "Failed to list calculations", err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Calculations: calcs, Count: len(calcs)})
}

// Catalog handles GET /api/v1/catalog.
func (h *CalculationHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, CatalogResponse{
		Catalog:       h.service.Catalog(),
		ShadingLevels: models.ShadingLevels,
		RoofTypes:     models.RoofTypes,
	})
}
