package predict

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pregai/pregai-backend/internal/logger"
)

// Severity tags attached to individual risk factors.
const (
	SeverityLow      = "Low"
	SeverityModerate = "Moderate"
	SeverityHigh     = "High"
)

const pregnancyDisclaimer = "This is an AI-assisted risk assessment. Please consult a qualified healthcare professional for medical advice and decisions."

// VitalSigns is the input record for a pregnancy risk prediction. Fields
// left at zero are treated as unmeasured rather than rejected.
type VitalSigns struct {
	Age                    float64 `json:"age"`
	BloodPressureSystolic  float64 `json:"blood_pressure_systolic"`
	BloodPressureDiastolic float64 `json:"blood_pressure_diastolic"`
	BloodSugar             float64 `json:"blood_sugar"`
	BodyTemperature        float64 `json:"body_temperature"`
	HeartRate              float64 `json:"heart_rate"`
}

func (v VitalSigns) features() []float64 {
	return []float64{
		v.Age,
		v.BloodPressureSystolic,
		v.BloodPressureDiastolic,
		v.BloodSugar,
		v.BodyTemperature,
		v.HeartRate,
	}
}

type RiskFactor struct {
	Factor      string `json:"factor"`
	Value       string `json:"value"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type VitalRangeAnalysis struct {
	BloodPressure struct {
		Value          string `json:"value"`
		NormalRange    string `json:"normal_range"`
		PregnancyRange string `json:"pregnancy_range"`
	} `json:"blood_pressure"`
	BloodSugar struct {
		Value          string `json:"value"`
		FastingNormal  string `json:"fasting_normal"`
		PostMealNormal string `json:"post_meal_normal"`
	} `json:"blood_sugar"`
	Temperature struct {
		Value       string `json:"value"`
		NormalRange string `json:"normal_range"`
	} `json:"temperature"`
	HeartRate struct {
		Value         string `json:"value"`
		NormalRange   string `json:"normal_range"`
		PregnancyNote string `json:"pregnancy_note"`
	} `json:"heart_rate"`
}

type PregnancyRiskResult struct {
	Prediction         int                 `json:"prediction"`
	RiskLevel          string              `json:"risk_level"`
	Confidence         float64             `json:"confidence"`
	RiskFactors        []RiskFactor        `json:"risk_factors"`
	Recommendations    []string            `json:"recommendations"`
	LifestyleAdvice    map[string][]string `json:"lifestyle_advice"`
	VitalSignsAnalysis VitalRangeAnalysis  `json:"vital_signs_analysis"`
	Disclaimer         string              `json:"disclaimer"`
}

var pregnancyRiskLevels = map[int]string{
	0: "Low Risk",
	1: "Medium Risk",
	2: "High Risk",
}

// PregnancyRiskPredictor maps six vital-sign inputs to a 3-level risk
// classification. With no trained model injected it scores the individual
// risk factors by severity.
type PregnancyRiskPredictor struct {
	log   *logger.Logger
	model Model
}

func NewPregnancyRiskPredictor(log *logger.Logger, model Model) *PregnancyRiskPredictor {
	return &PregnancyRiskPredictor{
		log:   log.With("predictor", "PregnancyRiskPredictor"),
		model: model,
	}
}

func (p *PregnancyRiskPredictor) Predict(vitals VitalSigns) (*PregnancyRiskResult, error) {
	riskFactors := analyzeRiskFactors(vitals)

	var prediction int
	var confidence float64
	if p.model != nil {
		cls, conf, err := p.model.Predict(vitals.features())
		if err != nil {
			return nil, fmt.Errorf("prediction error: %w", err)
		}
		prediction = cls
		confidence = conf
	} else {
		prediction, confidence = fallbackPregnancyPrediction(riskFactors)
	}

	riskLevel, ok := pregnancyRiskLevels[prediction]
	if !ok {
		riskLevel = "Unknown"
	}

	return &PregnancyRiskResult{
		Prediction:         prediction,
		RiskLevel:          riskLevel,
		Confidence:         round2(confidence),
		RiskFactors:        riskFactors,
		Recommendations:    pregnancyRecommendations(prediction),
		LifestyleAdvice:    lifestyleAdvice(riskFactors),
		VitalSignsAnalysis: analyzeVitalSigns(vitals),
		Disclaimer:         pregnancyDisclaimer,
	}, nil
}

func analyzeRiskFactors(v VitalSigns) []RiskFactor {
	riskFactors := []RiskFactor{}

	// Age
	if v.Age < 20 {
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "Young Maternal Age",
			Value:       fmtNum(v.Age),
			Severity:    SeverityModerate,
			Description: "Pregnancy under 20 may have increased complications",
		})
	} else if v.Age > 35 {
		severity := SeverityModerate
		if v.Age > 40 {
			severity = SeverityHigh
		}
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "Advanced Maternal Age",
			Value:       fmtNum(v.Age),
			Severity:    severity,
			Description: "Pregnancy after 35 carries increased risks for chromosomal abnormalities",
		})
	}

	// Blood pressure
	if v.BloodPressureSystolic >= 160 || v.BloodPressureDiastolic >= 100 {
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "Severe Hypertension",
			Value:       fmt.Sprintf("%s/%s mmHg", fmtNum(v.BloodPressureSystolic), fmtNum(v.BloodPressureDiastolic)),
			Severity:    SeverityHigh,
			Description: "Severely elevated blood pressure requires immediate medical attention",
		})
	} else if v.BloodPressureSystolic >= 140 || v.BloodPressureDiastolic >= 90 {
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "Hypertension",
			Value:       fmt.Sprintf("%s/%s mmHg", fmtNum(v.BloodPressureSystolic), fmtNum(v.BloodPressureDiastolic)),
			Severity:    SeverityModerate,
			Description: "Elevated blood pressure needs monitoring and management",
		})
	}

	// Blood sugar
	if v.BloodSugar >= 180 {
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "High Blood Sugar",
			Value:       fmt.Sprintf("%s mg/dL", fmtNum(v.BloodSugar)),
			Severity:    SeverityHigh,
			Description: "Very high blood sugar may indicate uncontrolled diabetes",
		})
	} else if v.BloodSugar >= 140 {
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "Elevated Blood Sugar",
			Value:       fmt.Sprintf("%s mg/dL", fmtNum(v.BloodSugar)),
			Severity:    SeverityModerate,
			Description: "May indicate gestational diabetes, glucose tolerance test recommended",
		})
	}

	// Temperature
	if v.BodyTemperature >= 100.4 {
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "Fever",
			Value:       fmt.Sprintf("%s°F", fmtNum(v.BodyTemperature)),
			Severity:    SeverityModerate,
			Description: "Fever during pregnancy should be evaluated for infection",
		})
	}

	// Heart rate
	if v.HeartRate > 100 {
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "Elevated Heart Rate",
			Value:       fmt.Sprintf("%s bpm", fmtNum(v.HeartRate)),
			Severity:    SeverityLow,
			Description: "Mildly elevated heart rate is common in pregnancy but should be monitored",
		})
	} else if v.HeartRate < 60 {
		riskFactors = append(riskFactors, RiskFactor{
			Factor:      "Low Heart Rate",
			Value:       fmt.Sprintf("%s bpm", fmtNum(v.HeartRate)),
			Severity:    SeverityModerate,
			Description: "Bradycardia should be evaluated",
		})
	}

	return riskFactors
}

// fallbackPregnancyPrediction bands the risk factors by severity counts.
// The confidence values are fixed per code path and intentionally differ
// between the two Low branches.
func fallbackPregnancyPrediction(riskFactors []RiskFactor) (int, float64) {
	if len(riskFactors) == 0 {
		return 0, 85.0
	}

	highSeverity := 0
	moderateSeverity := 0
	for _, rf := range riskFactors {
		switch rf.Severity {
		case SeverityHigh:
			highSeverity++
		case SeverityModerate:
			moderateSeverity++
		}
	}

	if highSeverity >= 2 || (highSeverity >= 1 && moderateSeverity >= 2) {
		return 2, 80.0
	}
	if highSeverity >= 1 || moderateSeverity >= 2 {
		return 1, 75.0
	}
	return 0, 80.0
}

func analyzeVitalSigns(v VitalSigns) VitalRangeAnalysis {
	var a VitalRangeAnalysis
	a.BloodPressure.Value = fmt.Sprintf("%s/%s mmHg", fmtNum(v.BloodPressureSystolic), fmtNum(v.BloodPressureDiastolic))
	a.BloodPressure.NormalRange = "90-120/60-80 mmHg"
	a.BloodPressure.PregnancyRange = "May normally increase slightly"
	a.BloodSugar.Value = fmt.Sprintf("%s mg/dL", fmtNum(v.BloodSugar))
	a.BloodSugar.FastingNormal = "70-95 mg/dL"
	a.BloodSugar.PostMealNormal = "Less than 140 mg/dL (1hr) or 120 mg/dL (2hr)"
	a.Temperature.Value = fmt.Sprintf("%s°F", fmtNum(v.BodyTemperature))
	a.Temperature.NormalRange = "97-99°F"
	a.HeartRate.Value = fmt.Sprintf("%s bpm", fmtNum(v.HeartRate))
	a.HeartRate.NormalRange = "60-100 bpm"
	a.HeartRate.PregnancyNote = "May increase 10-20 bpm during pregnancy"
	return a
}

func pregnancyRecommendations(prediction int) []string {
	baseRecommendations := []string{
		"Attend all scheduled prenatal appointments",
		"Take prescribed prenatal vitamins",
		"Stay hydrated and maintain balanced nutrition",
	}

	switch prediction {
	case 0:
		return append(baseRecommendations,
			"Continue healthy lifestyle habits",
			"Engage in regular, moderate exercise as approved by your provider",
			"Get adequate rest and sleep",
		)
	case 1:
		return []string{
			"Schedule more frequent prenatal check-ups",
			"Monitor blood pressure at home if recommended",
			"Maintain a pregnancy health diary",
			"Discuss risk factors with your healthcare provider",
			"Consider dietary modifications based on risk factors",
			"Reduce stress and prioritize rest",
		}
	default:
		return []string{
			"IMMEDIATE consultation with healthcare provider recommended",
			"You may need specialist referral (MFM - Maternal Fetal Medicine)",
			"Close monitoring and possible additional testing",
			"Strict adherence to medication regimen if prescribed",
			"Prepare for possibility of bed rest or modified activity",
			"Know warning signs that require emergency care",
			"Consider hospital proximity for delivery",
		}
	}
}

func lifestyleAdvice(riskFactors []RiskFactor) map[string][]string {
	advice := map[string][]string{
		"nutrition": {
			"Eat a balanced diet rich in fruits, vegetables, and whole grains",
			"Include lean proteins and healthy fats",
			"Limit processed foods and added sugars",
		},
		"exercise": {
			"30 minutes of moderate activity daily if approved",
			"Walking, swimming, and prenatal yoga are excellent options",
			"Avoid high-impact and contact sports",
		},
		"rest": {
			"Aim for 7-9 hours of sleep nightly",
			"Rest on your left side to improve circulation",
			"Take breaks throughout the day",
		},
	}

	for _, rf := range riskFactors {
		if strings.Contains(rf.Factor, "Hypertension") {
			advice["blood_pressure"] = []string{
				"Reduce sodium intake",
				"Avoid caffeine and stress",
				"Monitor blood pressure regularly",
				"Practice relaxation techniques",
			}
		}
		if strings.Contains(rf.Factor, "Blood Sugar") {
			advice["blood_sugar"] = []string{
				"Follow a low-glycemic diet",
				"Eat small, frequent meals",
				"Monitor blood sugar as directed",
				"Avoid sugary drinks and refined carbs",
			}
		}
	}

	return advice
}

// fmtNum renders a measurement the way it was entered: whole numbers
// without a trailing ".0", fractional values as given.
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
