package predict

import (
	"math"
	"os"
	"path/filepath"

	"github.com/pregai/pregai-backend/internal/logger"
)

// Model is the seam for a trained classifier artifact. Predict takes the
// fixed-order feature vector and returns a class index plus a confidence
// percentage in [0,100]. When no model is injected the predictors run their
// rule-based fallback instead.
type Model interface {
	Predict(features []float64) (class int, confidence float64, err error)
}

// ProbeArtifact checks the model store for a trained artifact. The current
// build has no in-process runtime for pickled/keras artifacts, so a present
// file is logged and nil is returned; inference stays rule-based until a
// runtime-backed Model is wired here.
func ProbeArtifact(log *logger.Logger, modelDir, filename string) Model {
	if modelDir == "" {
		return nil
	}
	path := filepath.Join(modelDir, filename)
	if _, err := os.Stat(path); err != nil {
		if log != nil {
			log.Debug("Model artifact not found, using rule-based fallback", "path", path)
		}
		return nil
	}
	if log != nil {
		log.Warn("Model artifact present but no inference runtime is wired, using rule-based fallback", "path", path)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
