package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Prediction kinds recorded in history rows.
const (
	PredictionTypeBrainTumor    = "brain_tumor"
	PredictionTypeFetalHealth   = "fetal_health"
	PredictionTypePregnancyRisk = "pregnancy_risk"
)

// PredictionHistory is an append-only record of one prediction event.
// Rows are written once and never updated.
type PredictionHistory struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"index;not null" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	PredictionType string         `gorm:"not null;index;column:prediction_type" json:"prediction_type"`
	InputData      datatypes.JSON `gorm:"column:input_data" json:"input_data"`
	Result         datatypes.JSON `gorm:"not null;column:result" json:"result"`
	Confidence     float64        `gorm:"column:confidence" json:"confidence"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
}

func (PredictionHistory) TableName() string {
	return "prediction_history"
}

func IsValidPredictionType(t string) bool {
	switch t {
	case PredictionTypeBrainTumor, PredictionTypeFetalHealth, PredictionTypePregnancyRisk:
		return true
	}
	return false
}
