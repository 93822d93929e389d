package predict

import (
	"reflect"
	"testing"
)

func normalVitals() VitalSigns {
	return VitalSigns{
		Age:                    28,
		BloodPressureSystolic:  110,
		BloodPressureDiastolic: 70,
		BloodSugar:             90,
		BodyTemperature:        98.6,
		HeartRate:              75,
	}
}

func TestPregnancyRiskFallbackBands(t *testing.T) {
	p := NewPregnancyRiskPredictor(testLogger(t), nil)

	tests := []struct {
		name           string
		vitals         VitalSigns
		wantPrediction int
		wantRiskLevel  string
		wantConfidence float64
	}{
		{
			name:           "no risk factors",
			vitals:         normalVitals(),
			wantPrediction: 0,
			wantRiskLevel:  "Low Risk",
			wantConfidence: 85.0,
		},
		{
			name: "single high severity factor",
			vitals: VitalSigns{
				Age: 42, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 90, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantPrediction: 1,
			wantRiskLevel:  "Medium Risk",
			wantConfidence: 75.0,
		},
		{
			name: "two high severity factors",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 165, BloodPressureDiastolic: 105,
				BloodSugar: 190, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantPrediction: 2,
			wantRiskLevel:  "High Risk",
			wantConfidence: 80.0,
		},
		{
			name: "one high plus two moderate factors",
			vitals: VitalSigns{
				Age: 42, BloodPressureSystolic: 145, BloodPressureDiastolic: 92,
				BloodSugar: 90, BodyTemperature: 101, HeartRate: 75,
			},
			wantPrediction: 2,
			wantRiskLevel:  "High Risk",
			wantConfidence: 80.0,
		},
		{
			name: "two moderate factors",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 145, BloodPressureDiastolic: 92,
				BloodSugar: 90, BodyTemperature: 101, HeartRate: 75,
			},
			wantPrediction: 1,
			wantRiskLevel:  "Medium Risk",
			wantConfidence: 75.0,
		},
		{
			name: "multiple severe findings",
			vitals: VitalSigns{
				Age: 42, BloodPressureSystolic: 165, BloodPressureDiastolic: 105,
				BloodSugar: 190, BodyTemperature: 101, HeartRate: 110,
			},
			wantPrediction: 2,
			wantRiskLevel:  "High Risk",
			wantConfidence: 80.0,
		},
		{
			// A lone low-severity factor lands in the second Low branch,
			// which carries a different confidence than the factor-free one.
			name: "only low severity factor",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 90, BodyTemperature: 98.6, HeartRate: 105,
			},
			wantPrediction: 0,
			wantRiskLevel:  "Low Risk",
			wantConfidence: 80.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Predict(tt.vitals)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if got.Prediction != tt.wantPrediction {
				t.Errorf("Prediction = %d, want %d", got.Prediction, tt.wantPrediction)
			}
			if got.RiskLevel != tt.wantRiskLevel {
				t.Errorf("RiskLevel = %q, want %q", got.RiskLevel, tt.wantRiskLevel)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Disclaimer == "" {
				t.Errorf("expected disclaimer")
			}
		})
	}
}

func TestPregnancyRiskFactorNames(t *testing.T) {
	tests := []struct {
		name         string
		vitals       VitalSigns
		wantFactor   string
		wantSeverity string
	}{
		{
			name: "young maternal age",
			vitals: VitalSigns{
				Age: 17, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 90, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantFactor:   "Young Maternal Age",
			wantSeverity: SeverityModerate,
		},
		{
			name: "advanced maternal age moderate",
			vitals: VitalSigns{
				Age: 38, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 90, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantFactor:   "Advanced Maternal Age",
			wantSeverity: SeverityModerate,
		},
		{
			name: "advanced maternal age high",
			vitals: VitalSigns{
				Age: 41, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 90, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantFactor:   "Advanced Maternal Age",
			wantSeverity: SeverityHigh,
		},
		{
			name: "severe hypertension",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 162, BloodPressureDiastolic: 80,
				BloodSugar: 90, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantFactor:   "Severe Hypertension",
			wantSeverity: SeverityHigh,
		},
		{
			name: "hypertension from diastolic alone",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 118, BloodPressureDiastolic: 92,
				BloodSugar: 90, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantFactor:   "Hypertension",
			wantSeverity: SeverityModerate,
		},
		{
			name: "high blood sugar",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 185, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantFactor:   "High Blood Sugar",
			wantSeverity: SeverityHigh,
		},
		{
			name: "elevated blood sugar",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 150, BodyTemperature: 98.6, HeartRate: 75,
			},
			wantFactor:   "Elevated Blood Sugar",
			wantSeverity: SeverityModerate,
		},
		{
			name: "fever",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 90, BodyTemperature: 100.4, HeartRate: 75,
			},
			wantFactor:   "Fever",
			wantSeverity: SeverityModerate,
		},
		{
			name: "low heart rate",
			vitals: VitalSigns{
				Age: 28, BloodPressureSystolic: 110, BloodPressureDiastolic: 70,
				BloodSugar: 90, BodyTemperature: 98.6, HeartRate: 55,
			},
			wantFactor:   "Low Heart Rate",
			wantSeverity: SeverityModerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factors := analyzeRiskFactors(tt.vitals)
			if len(factors) != 1 {
				t.Fatalf("expected 1 factor, got %d: %+v", len(factors), factors)
			}
			if factors[0].Factor != tt.wantFactor {
				t.Errorf("Factor = %q, want %q", factors[0].Factor, tt.wantFactor)
			}
			if factors[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %q, want %q", factors[0].Severity, tt.wantSeverity)
			}
		})
	}
}

func TestPregnancyRiskIdempotent(t *testing.T) {
	p := NewPregnancyRiskPredictor(testLogger(t), nil)
	vitals := VitalSigns{
		Age: 42, BloodPressureSystolic: 145, BloodPressureDiastolic: 92,
		BloodSugar: 150, BodyTemperature: 101, HeartRate: 105,
	}
	first, err := p.Predict(vitals)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	second, err := p.Predict(vitals)
	if err != nil {
		t.Fatalf("Predict (second): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results for identical input")
	}
}

func TestPregnancyRiskLifestyleAdviceExtras(t *testing.T) {
	p := NewPregnancyRiskPredictor(testLogger(t), nil)
	got, err := p.Predict(VitalSigns{
		Age: 28, BloodPressureSystolic: 145, BloodPressureDiastolic: 92,
		BloodSugar: 150, BodyTemperature: 98.6, HeartRate: 75,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(got.LifestyleAdvice["blood_pressure"]) == 0 {
		t.Errorf("expected blood_pressure advice for hypertension factor")
	}
	if len(got.LifestyleAdvice["blood_sugar"]) == 0 {
		t.Errorf("expected blood_sugar advice for elevated blood sugar factor")
	}
	for _, key := range []string{"nutrition", "exercise", "rest"} {
		if len(got.LifestyleAdvice[key]) == 0 {
			t.Errorf("expected baseline %s advice", key)
		}
	}
}

func TestPregnancyRiskWithModel(t *testing.T) {
	p := NewPregnancyRiskPredictor(testLogger(t), stubModel{class: 2, confidence: 93.217})
	got, err := p.Predict(normalVitals())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got.Prediction != 2 || got.RiskLevel != "High Risk" {
		t.Errorf("expected model prediction to win, got %d %q", got.Prediction, got.RiskLevel)
	}
	if got.Confidence != 93.22 {
		t.Errorf("Confidence = %v, want 93.22", got.Confidence)
	}

	p = NewPregnancyRiskPredictor(testLogger(t), stubModel{err: errStub})
	if _, err := p.Predict(normalVitals()); err == nil {
		t.Fatalf("expected model error to propagate")
	}
}
