package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pregai/pregai-backend/internal/logger"
	"github.com/pregai/pregai-backend/internal/types"
)

// historyQueryLimit caps history reads; older rows stay in the table but are
// never returned through the API.
const historyQueryLimit = 50

type PredictionHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PredictionHistory) ([]*types.PredictionHistory, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, predictionType string) ([]*types.PredictionHistory, error)
}

type predictionHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPredictionHistoryRepo(db *gorm.DB, baseLog *logger.Logger) PredictionHistoryRepo {
	repoLog := baseLog.With("repo", "PredictionHistoryRepo")
	return &predictionHistoryRepo{db: db, log: repoLog}
}

func (pr *predictionHistoryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PredictionHistory) ([]*types.PredictionHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(rows) == 0 {
		return []*types.PredictionHistory{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// ListByUser returns the newest rows first, optionally filtered by
// prediction type, capped at 50.
func (pr *predictionHistoryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, predictionType string) ([]*types.PredictionHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.PredictionHistory

	query := transaction.WithContext(ctx).
		Where("user_id = ?", userID)
	if predictionType != "" {
		query = query.Where("prediction_type = ?", predictionType)
	}

	if err := query.
		Order("created_at DESC").
		Limit(historyQueryLimit).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
