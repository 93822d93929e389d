package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/pregai/pregai-backend/internal/clients/redis"
	"github.com/pregai/pregai-backend/internal/logger"
	"github.com/pregai/pregai-backend/internal/predict"
	"github.com/pregai/pregai-backend/internal/repos"
	"github.com/pregai/pregai-backend/internal/requestdata"
	"github.com/pregai/pregai-backend/internal/types"
)

// ErrInvalidPredictionType marks a history query with an unrecognized type
// filter so handlers can map it to a client error.
var ErrInvalidPredictionType = errors.New("invalid prediction type")

type PredictionService interface {
	PredictBrainTumor(ctx context.Context, imagePath string, patient *predict.PatientData) (*predict.BrainTumorResult, error)
	PredictFetalHealth(ctx context.Context, input predict.CTGInput) (*predict.FetalHealthResult, error)
	PredictPregnancyRisk(ctx context.Context, vitals predict.VitalSigns) (*predict.PregnancyRiskResult, error)
	GetHistory(ctx context.Context, predictionType string) ([]*types.PredictionHistory, error)
}

type predictionService struct {
	db          *gorm.DB
	log         *logger.Logger
	historyRepo repos.PredictionHistoryRepo
	brainTumor  *predict.BrainTumorPredictor
	fetalHealth *predict.FetalHealthPredictor
	pregnancy   *predict.PregnancyRiskPredictor
	eventBus    redisclient.EventBus
}

// NewPredictionService wires the three predictors to the history store.
// eventBus may be nil; publishing is best-effort either way.
func NewPredictionService(
	db *gorm.DB,
	log *logger.Logger,
	historyRepo repos.PredictionHistoryRepo,
	brainTumor *predict.BrainTumorPredictor,
	fetalHealth *predict.FetalHealthPredictor,
	pregnancy *predict.PregnancyRiskPredictor,
	eventBus redisclient.EventBus,
) PredictionService {
	serviceLog := log.With("service", "PredictionService")
	return &predictionService{
		db:          db,
		log:         serviceLog,
		historyRepo: historyRepo,
		brainTumor:  brainTumor,
		fetalHealth: fetalHealth,
		pregnancy:   pregnancy,
		eventBus:    eventBus,
	}
}

func (ps *predictionService) PredictBrainTumor(ctx context.Context, imagePath string, patient *predict.PatientData) (*predict.BrainTumorResult, error) {
	result, err := ps.brainTumor.Predict(imagePath, patient)
	if err != nil {
		return nil, err
	}
	inputData := map[string]interface{}{}
	if patient != nil {
		inputData["patient_data"] = patient
	}
	if hErr := ps.storeHistory(ctx, types.PredictionTypeBrainTumor, inputData, result, result.Confidence); hErr != nil {
		return nil, hErr
	}
	return result, nil
}

func (ps *predictionService) PredictFetalHealth(ctx context.Context, input predict.CTGInput) (*predict.FetalHealthResult, error) {
	result, err := ps.fetalHealth.Predict(input)
	if err != nil {
		return nil, err
	}
	if hErr := ps.storeHistory(ctx, types.PredictionTypeFetalHealth, input, result, result.Confidence); hErr != nil {
		return nil, hErr
	}
	return result, nil
}

func (ps *predictionService) PredictPregnancyRisk(ctx context.Context, vitals predict.VitalSigns) (*predict.PregnancyRiskResult, error) {
	result, err := ps.pregnancy.Predict(vitals)
	if err != nil {
		return nil, err
	}
	if hErr := ps.storeHistory(ctx, types.PredictionTypePregnancyRisk, vitals, result, result.Confidence); hErr != nil {
		return nil, hErr
	}
	return result, nil
}

func (ps *predictionService) GetHistory(ctx context.Context, predictionType string) ([]*types.PredictionHistory, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	if predictionType != "" && !types.IsValidPredictionType(predictionType) {
		return nil, fmt.Errorf("%w %q", ErrInvalidPredictionType, predictionType)
	}
	rows, err := ps.historyRepo.ListByUser(ctx, nil, rd.UserID, predictionType)
	if err != nil {
		return nil, fmt.Errorf("failed to list prediction history: %w", err)
	}
	return rows, nil
}

// storeHistory persists the prediction for the authenticated user and
// publishes a prediction event. A missing or failing event bus never fails
// the request.
func (ps *predictionService) storeHistory(ctx context.Context, predictionType string, input interface{}, result interface{}, confidence float64) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("no authenticated user in context")
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction input: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction result: %w", err)
	}

	row := &types.PredictionHistory{
		ID:             uuid.New(),
		UserID:         rd.UserID,
		PredictionType: predictionType,
		InputData:      datatypes.JSON(inputJSON),
		Result:         datatypes.JSON(resultJSON),
		Confidence:     confidence,
	}

	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := ps.historyRepo.Create(ctx, tx, []*types.PredictionHistory{row}); cErr != nil {
			return fmt.Errorf("failed to store prediction history: %w", cErr)
		}
		return nil
	}); err != nil {
		return err
	}

	if ps.eventBus != nil {
		event := redisclient.PredictionEvent{
			HistoryID:      row.ID,
			UserID:         row.UserID,
			PredictionType: row.PredictionType,
			Confidence:     row.Confidence,
			CreatedAt:      row.CreatedAt,
		}
		if pubErr := ps.eventBus.Publish(ctx, event); pubErr != nil {
			ps.log.Warn("Failed to publish prediction event", "error", pubErr)
		}
	}
	return nil
}
