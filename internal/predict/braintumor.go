package predict

import (
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/pregai/pregai-backend/internal/logger"
)

const brainTumorDisclaimer = "This is an AI-assisted analysis. Please consult a qualified healthcare professional for diagnosis and treatment."

// imageSize is the square input resolution expected by the CNN.
const imageSize = 224

// BrainTumorClasses is the fixed class order of the image classifier.
var BrainTumorClasses = []string{"No Tumor", "Glioma", "Meningioma", "Pituitary Tumor"}

// PatientData is the optional pregnancy context submitted with an MRI scan.
type PatientData struct {
	Age             int    `json:"age"`
	GestationalWeek int    `json:"gestational_week"`
	Symptoms        string `json:"symptoms"`
	MedicalHistory  string `json:"medical_history"`
}

type PregnancyRiskAnnotation struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

type BrainTumorResult struct {
	Prediction           string   `json:"prediction"`
	Confidence           float64  `json:"confidence"`
	HasTumor             bool     `json:"has_tumor"`
	TumorType            *string  `json:"tumor_type"`
	PregnancyRiskLevel   string   `json:"pregnancy_risk_level"`
	PregnancyRiskFactors []string `json:"pregnancy_risk_factors"`
	Recommendations      []string `json:"recommendations"`
	Disclaimer           string   `json:"disclaimer"`
}

// BrainTumorPredictor classifies brain MRI scans. Without a trained model
// it falls back to coarse intensity statistics of the normalized image.
type BrainTumorPredictor struct {
	log   *logger.Logger
	model Model
}

func NewBrainTumorPredictor(log *logger.Logger, model Model) *BrainTumorPredictor {
	return &BrainTumorPredictor{
		log:   log.With("predictor", "BrainTumorPredictor"),
		model: model,
	}
}

// PreprocessImage decodes an image file, resizes it to 224x224 RGB and
// normalizes pixel values into [0,1], flattened channel-interleaved.
func (p *BrainTumorPredictor) PreprocessImage(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error processing image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error processing image: %w", err)
	}

	resized := image.NewRGBA(image.Rect(0, 0, imageSize, imageSize))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), src, src.Bounds(), draw.Src, nil)

	tensor := make([]float64, 0, imageSize*imageSize*3)
	for y := 0; y < imageSize; y++ {
		for x := 0; x < imageSize; x++ {
			offset := resized.PixOffset(x, y)
			tensor = append(tensor,
				float64(resized.Pix[offset])/255.0,
				float64(resized.Pix[offset+1])/255.0,
				float64(resized.Pix[offset+2])/255.0,
			)
		}
	}
	return tensor, nil
}

func (p *BrainTumorPredictor) Predict(imagePath string, patient *PatientData) (*BrainTumorResult, error) {
	tensor, err := p.PreprocessImage(imagePath)
	if err != nil {
		return nil, err
	}

	var predictedClass string
	var confidence float64
	if p.model != nil {
		cls, conf, err := p.model.Predict(tensor)
		if err != nil {
			return nil, fmt.Errorf("prediction error: %w", err)
		}
		if cls < 0 || cls >= len(BrainTumorClasses) {
			return nil, fmt.Errorf("prediction error: class index %d out of range", cls)
		}
		predictedClass = BrainTumorClasses[cls]
		confidence = conf
	} else {
		predictedClass, confidence = classifyImageStats(tensor)
	}

	pregnancyRisk := calculatePregnancyRisk(patient)

	var tumorType *string
	hasTumor := predictedClass != "No Tumor"
	if hasTumor {
		t := predictedClass
		tumorType = &t
	}

	return &BrainTumorResult{
		Prediction:           predictedClass,
		Confidence:           round2(confidence),
		HasTumor:             hasTumor,
		TumorType:            tumorType,
		PregnancyRiskLevel:   pregnancyRisk.Level,
		PregnancyRiskFactors: pregnancyRisk.Factors,
		Recommendations:      brainTumorRecommendations(predictedClass),
		Disclaimer:           brainTumorDisclaimer,
	}, nil
}

// classifyImageStats is the rule-based fallback over mean and population
// standard deviation of all normalized pixel values.
func classifyImageStats(tensor []float64) (string, float64) {
	mean, std := imageStats(tensor)

	if std > 0.25 {
		switch {
		case mean > 0.6:
			return "Meningioma", 65.5
		case mean > 0.4:
			return "Glioma", 58.3
		default:
			return "Pituitary Tumor", 52.7
		}
	}
	return "No Tumor", 78.9
}

func imageStats(tensor []float64) (mean, std float64) {
	if len(tensor) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range tensor {
		sum += v
	}
	mean = sum / float64(len(tensor))

	var sqDiff float64
	for _, v := range tensor {
		d := v - mean
		sqDiff += d * d
	}
	std = math.Sqrt(sqDiff / float64(len(tensor)))
	return mean, std
}

var concerningSymptoms = []string{"severe headache", "vision", "seizure", "confusion", "weakness"}

func calculatePregnancyRisk(patient *PatientData) PregnancyRiskAnnotation {
	if patient == nil {
		return PregnancyRiskAnnotation{Level: "Unknown", Factors: []string{}}
	}

	factors := []string{}
	riskScore := 0

	if patient.Age >= 35 {
		factors = append(factors, "Advanced maternal age (35+)")
		riskScore += 2
	} else if patient.Age < 18 {
		factors = append(factors, "Young maternal age")
		riskScore++
	}

	if patient.GestationalWeek < 12 {
		factors = append(factors, "First trimester - radiation exposure concerns")
		riskScore += 2
	} else if patient.GestationalWeek > 28 {
		factors = append(factors, "Third trimester - delivery planning needed")
		riskScore++
	}

	symptoms := strings.ToLower(patient.Symptoms)
	for _, symptom := range concerningSymptoms {
		if strings.Contains(symptoms, symptom) {
			factors = append(factors, "Concerning symptom: "+symptom)
			riskScore += 2
		}
	}

	level := "Low"
	if riskScore >= 5 {
		level = "High"
	} else if riskScore >= 3 {
		level = "Moderate"
	}

	return PregnancyRiskAnnotation{Level: level, Factors: factors}
}

func brainTumorRecommendations(prediction string) []string {
	if prediction == "No Tumor" {
		return []string{
			"Continue regular prenatal check-ups",
			"Report any new or worsening symptoms to your healthcare provider",
			"Maintain a healthy lifestyle during pregnancy",
			"Consider a follow-up scan if symptoms persist",
		}
	}

	recommendations := []string{
		"Seek immediate consultation with a neurosurgeon experienced in pregnancy cases",
		"Consult with your obstetrician about the findings",
		"Discuss treatment options that are safe during pregnancy",
		"Consider multidisciplinary team approach for treatment planning",
		"Regular monitoring of both maternal and fetal health",
		"Prepare for potential adjustments to delivery planning",
	}

	switch prediction {
	case "Meningioma":
		recommendations = append(recommendations, "Meningiomas are often slow-growing; monitoring may be an option")
	case "Glioma":
		recommendations = append(recommendations, "Glioma treatment requires careful consideration of pregnancy stage")
	case "Pituitary Tumor":
		recommendations = append(recommendations, "Pituitary tumors may affect hormone levels; endocrine evaluation recommended")
	}

	return recommendations
}
