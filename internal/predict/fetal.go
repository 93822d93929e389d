package predict

import (
	"fmt"

	"github.com/pregai/pregai-backend/internal/logger"
)

const fetalDisclaimer = "This is an AI-assisted analysis of CTG data. Please consult a qualified healthcare professional for diagnosis and medical decisions."

// CTGInput carries the 21 cardiotocography measurements in the canonical
// feature order used by the trained classifier. The misspelling of
// "prolongued" matches the upstream dataset column name.
type CTGInput struct {
	BaselineValue                                   float64 `json:"baseline_value"`
	Accelerations                                   float64 `json:"accelerations"`
	FetalMovement                                   float64 `json:"fetal_movement"`
	UterineContractions                             float64 `json:"uterine_contractions"`
	LightDecelerations                              float64 `json:"light_decelerations"`
	SevereDecelerations                             float64 `json:"severe_decelerations"`
	ProlonguedDecelerations                         float64 `json:"prolongued_decelerations"`
	AbnormalShortTermVariability                    float64 `json:"abnormal_short_term_variability"`
	MeanValueOfShortTermVariability                 float64 `json:"mean_value_of_short_term_variability"`
	PercentageOfTimeWithAbnormalLongTermVariability float64 `json:"percentage_of_time_with_abnormal_long_term_variability"`
	MeanValueOfLongTermVariability                  float64 `json:"mean_value_of_long_term_variability"`
	HistogramWidth                                  float64 `json:"histogram_width"`
	HistogramMin                                    float64 `json:"histogram_min"`
	HistogramMax                                    float64 `json:"histogram_max"`
	HistogramNumberOfPeaks                          float64 `json:"histogram_number_of_peaks"`
	HistogramNumberOfZeroes                         float64 `json:"histogram_number_of_zeroes"`
	HistogramMode                                   float64 `json:"histogram_mode"`
	HistogramMean                                   float64 `json:"histogram_mean"`
	HistogramMedian                                 float64 `json:"histogram_median"`
	HistogramVariance                               float64 `json:"histogram_variance"`
	HistogramTendency                               float64 `json:"histogram_tendency"`
}

func (c CTGInput) features() []float64 {
	return []float64{
		c.BaselineValue,
		c.Accelerations,
		c.FetalMovement,
		c.UterineContractions,
		c.LightDecelerations,
		c.SevereDecelerations,
		c.ProlonguedDecelerations,
		c.AbnormalShortTermVariability,
		c.MeanValueOfShortTermVariability,
		c.PercentageOfTimeWithAbnormalLongTermVariability,
		c.MeanValueOfLongTermVariability,
		c.HistogramWidth,
		c.HistogramMin,
		c.HistogramMax,
		c.HistogramNumberOfPeaks,
		c.HistogramNumberOfZeroes,
		c.HistogramMode,
		c.HistogramMean,
		c.HistogramMedian,
		c.HistogramVariance,
		c.HistogramTendency,
	}
}

type BaselineAnalysis struct {
	Status      string  `json:"status"`
	Value       float64 `json:"value"`
	NormalRange string  `json:"normal_range"`
}

type AccelerationAnalysis struct {
	Status string  `json:"status"`
	Value  float64 `json:"value"`
}

type DecelerationAnalysis struct {
	Status    string  `json:"status"`
	Severe    float64 `json:"severe"`
	Prolonged float64 `json:"prolonged"`
}

type VariabilityAnalysis struct {
	Status    string  `json:"status"`
	ShortTerm float64 `json:"short_term"`
	LongTerm  float64 `json:"long_term"`
}

// CTGAnalysis is the informational per-indicator breakdown. It does not
// feed the risk score.
type CTGAnalysis struct {
	BaselineHeartRate BaselineAnalysis     `json:"baseline_heart_rate"`
	Accelerations     AccelerationAnalysis `json:"accelerations"`
	Decelerations     DecelerationAnalysis `json:"decelerations"`
	Variability       VariabilityAnalysis  `json:"variability"`
}

type FetalHealthResult struct {
	Prediction      int         `json:"prediction"`
	Class           string      `json:"class"`
	Confidence      float64     `json:"confidence"`
	RiskLevel       string      `json:"risk_level"`
	Analysis        CTGAnalysis `json:"analysis"`
	Recommendations []string    `json:"recommendations"`
	Disclaimer      string      `json:"disclaimer"`
}

var fetalClasses = map[int]string{
	1: "Normal",
	2: "Suspect",
	3: "Pathological",
}

var fetalRiskLevels = map[int]string{
	1: "Low",
	2: "Moderate",
	3: "High",
}

// FetalHealthPredictor classifies CTG traces as Normal, Suspect or
// Pathological.
type FetalHealthPredictor struct {
	log   *logger.Logger
	model Model
}

func NewFetalHealthPredictor(log *logger.Logger, model Model) *FetalHealthPredictor {
	return &FetalHealthPredictor{
		log:   log.With("predictor", "FetalHealthPredictor"),
		model: model,
	}
}

func (p *FetalHealthPredictor) Predict(input CTGInput) (*FetalHealthResult, error) {
	var prediction int
	var confidence float64
	if p.model != nil {
		cls, conf, err := p.model.Predict(input.features())
		if err != nil {
			return nil, fmt.Errorf("prediction error: %w", err)
		}
		prediction = cls
		confidence = conf
	} else {
		prediction, confidence = fallbackFetalPrediction(input)
	}

	className, ok := fetalClasses[prediction]
	if !ok {
		className = "Unknown"
	}
	riskLevel, ok := fetalRiskLevels[prediction]
	if !ok {
		riskLevel = "Unknown"
	}

	return &FetalHealthResult{
		Prediction:      prediction,
		Class:           className,
		Confidence:      round2(confidence),
		RiskLevel:       riskLevel,
		Analysis:        analyzeCTGIndicators(input),
		Recommendations: fetalRecommendations(prediction),
		Disclaimer:      fetalDisclaimer,
	}, nil
}

func fallbackFetalPrediction(c CTGInput) (int, float64) {
	riskScore := 0

	// Baseline fetal heart rate
	if c.BaselineValue < 110 || c.BaselineValue > 160 {
		riskScore += 2
	}

	// Lack of accelerations
	if c.Accelerations < 0.001 {
		riskScore++
	}

	// Severe decelerations
	if c.SevereDecelerations > 0 {
		riskScore += 3
	}

	// Prolonged decelerations
	if c.ProlonguedDecelerations > 0 {
		riskScore += 2
	}

	// High abnormal short-term variability
	if c.AbnormalShortTermVariability > 50 {
		riskScore += 2
	}

	if riskScore >= 5 {
		return 3, 75.0
	}
	if riskScore >= 2 {
		return 2, 70.0
	}
	return 1, 85.0
}

func analyzeCTGIndicators(c CTGInput) CTGAnalysis {
	var a CTGAnalysis

	a.BaselineHeartRate.Value = c.BaselineValue
	a.BaselineHeartRate.NormalRange = "110-160 bpm"
	switch {
	case c.BaselineValue >= 110 && c.BaselineValue <= 160:
		a.BaselineHeartRate.Status = "Normal"
	case c.BaselineValue < 110:
		a.BaselineHeartRate.Status = "Low (Bradycardia)"
	default:
		a.BaselineHeartRate.Status = "High (Tachycardia)"
	}

	a.Accelerations.Value = c.Accelerations
	if c.Accelerations > 0 {
		a.Accelerations.Status = "Present (Good sign)"
	} else {
		a.Accelerations.Status = "Absent (Needs attention)"
	}

	a.Decelerations.Severe = c.SevereDecelerations
	a.Decelerations.Prolonged = c.ProlonguedDecelerations
	if c.SevereDecelerations > 0 || c.ProlonguedDecelerations > 0 {
		a.Decelerations.Status = "Concerning"
	} else {
		a.Decelerations.Status = "Normal"
	}

	a.Variability.ShortTerm = c.MeanValueOfShortTermVariability
	a.Variability.LongTerm = c.MeanValueOfLongTermVariability
	if c.MeanValueOfShortTermVariability >= 5 && c.MeanValueOfShortTermVariability <= 25 {
		a.Variability.Status = "Normal"
	} else {
		a.Variability.Status = "Abnormal"
	}

	return a
}

func fetalRecommendations(prediction int) []string {
	switch prediction {
	case 1:
		return []string{
			"Continue routine prenatal monitoring",
			"Maintain regular fetal kick counts",
			"Follow up with scheduled appointments",
			"Report any changes in fetal movement to your provider",
		}
	case 2:
		return []string{
			"Increased monitoring recommended",
			"Consider non-stress test (NST) follow-up",
			"Stay hydrated and rest on your left side",
			"Report any decreased fetal movement immediately",
			"Schedule follow-up within 24-48 hours",
		}
	default:
		return []string{
			"URGENT: Immediate medical evaluation required",
			"Contact your healthcare provider or go to labor & delivery",
			"Continuous fetal monitoring may be needed",
			"Prepare for possible early delivery if condition persists",
			"Do not delay seeking medical care",
		}
	}
}
