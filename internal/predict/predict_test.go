package predict

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pregai/pregai-backend/internal/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// stubModel satisfies Model with fixed output, standing in for a trained
// artifact runtime.
type stubModel struct {
	class      int
	confidence float64
	err        error
}

func (s stubModel) Predict(features []float64) (int, float64, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.class, s.confidence, nil
}

func TestProbeArtifactMissing(t *testing.T) {
	if m := ProbeArtifact(testLogger(t), t.TempDir(), "pregnancy_risk_model.pkl"); m != nil {
		t.Fatalf("expected nil model for missing artifact")
	}
	if m := ProbeArtifact(testLogger(t), "", "anything.pkl"); m != nil {
		t.Fatalf("expected nil model for empty model dir")
	}
}

var errStub = fmt.Errorf("stub failure")
