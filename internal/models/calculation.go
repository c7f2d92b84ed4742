package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SavedCalculation is a persisted calculation: the inputs as submitted and
// the merged results, stored as JSONB documents.
type SavedCalculation struct {
	CreatedAt time.Time         `json:"createdAt"`
	UserKey   string            `json:"userKey"`
	Inputs    SolarInputParams  `json:"inputs"`
	Results   CalculationResult `json:"results"`
	ID        uuid.UUID         `json:"id"`
}

// TableName is the PostgreSQL table that stores saved calculations.
func (SavedCalculation) TableName() string {
	return "solar_calculations"
}

// Scan implements sql.Scanner for reading the inputs JSONB column.
func (p *SolarInputParams) Scan(value interface{}) error {
	return scanJSONB(value, p, "solar inputs")
}

// Value implements driver.Valuer for writing the inputs JSONB column.
func (p SolarInputParams) Value() (driver.Value, error) {
	return valueJSONB(p, "solar inputs")
}

// Scan implements sql.Scanner for reading the results JSONB column.
func (r *CalculationResult) Scan(value interface{}) error {
	return scanJSONB(value, r, "calculation results")
}

// Value implements driver.Valuer for writing the results JSONB column.
func (r CalculationResult) Value() (driver.Value, error) {
	return valueJSONB(r, "calculation results")
}

func scanJSONB(value interface{}, dst interface{}, what string) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to scan %s: expected []byte or string, got %T", what, value)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", what, err)
	}
	return nil
}

func valueJSONB(src interface{}, what string) (driver.Value, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return string(data), nil
}
