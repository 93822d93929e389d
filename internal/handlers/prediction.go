package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pregai/pregai-backend/internal/logger"
	"github.com/pregai/pregai-backend/internal/predict"
	"github.com/pregai/pregai-backend/internal/services"
)

// maxUploadBytes caps MRI uploads at 16MB, matching the upload limit the
// frontend enforces.
const maxUploadBytes = 16 << 20

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var pregnancyRiskFields = []string{
	"age",
	"blood_pressure_systolic",
	"blood_pressure_diastolic",
	"blood_sugar",
	"body_temperature",
	"heart_rate",
}

var fetalHealthFields = []string{
	"baseline_value",
	"accelerations",
	"fetal_movement",
	"uterine_contractions",
	"light_decelerations",
	"severe_decelerations",
	"prolongued_decelerations",
	"abnormal_short_term_variability",
	"mean_value_of_short_term_variability",
	"percentage_of_time_with_abnormal_long_term_variability",
	"mean_value_of_long_term_variability",
	"histogram_width",
	"histogram_min",
	"histogram_max",
	"histogram_number_of_peaks",
	"histogram_number_of_zeroes",
	"histogram_mode",
	"histogram_mean",
	"histogram_median",
	"histogram_variance",
	"histogram_tendency",
}

type PredictionHandler struct {
	log               *logger.Logger
	predictionService services.PredictionService
	uploadDir         string
}

func NewPredictionHandler(log *logger.Logger, predictionService services.PredictionService, uploadDir string) *PredictionHandler {
	return &PredictionHandler{
		log:               log.With("handler", "PredictionHandler"),
		predictionService: predictionService,
		uploadDir:         uploadDir,
	}
}

// bindRequired decodes the request body into out after verifying that every
// required key is present; absent fields would otherwise silently zero.
func bindRequired(c *gin.Context, required []string, out interface{}) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("invalid request body")
	}
	var missing []string
	for _, field := range required {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid request body")
	}
	return nil
}

// formValue returns the first non-empty value among the given form keys.
// The web client sends gestational week and medical history camelCased.
func formValue(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := c.PostForm(k); v != "" {
			return v
		}
	}
	return ""
}

func (ph *PredictionHandler) PredictBrainTumor(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image file provided"})
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type, expected png, jpg, jpeg or gif"})
		return
	}

	patient := &predict.PatientData{
		Symptoms:       c.PostForm("symptoms"),
		MedicalHistory: formValue(c, "medicalHistory", "medical_history"),
	}
	if ageStr := c.PostForm("age"); ageStr != "" {
		if age, convErr := strconv.Atoi(ageStr); convErr == nil {
			patient.Age = age
		}
	}
	if weekStr := formValue(c, "gestationalWeek", "gestational_week"); weekStr != "" {
		if week, convErr := strconv.Atoi(weekStr); convErr == nil {
			patient.GestationalWeek = week
		}
	}

	if err := os.MkdirAll(ph.uploadDir, 0o755); err != nil {
		ph.log.Error("Failed to create upload directory", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded image"})
		return
	}
	imagePath := filepath.Join(ph.uploadDir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(fileHeader, imagePath); err != nil {
		ph.log.Error("Failed to save uploaded image", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded image"})
		return
	}
	defer os.Remove(imagePath)

	result, err := ph.predictionService.PredictBrainTumor(c.Request.Context(), imagePath, patient)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "prediction_failed", err)
		return
	}
	RespondOK(c, result)
}

func (ph *PredictionHandler) PredictFetalHealth(c *gin.Context) {
	var input predict.CTGInput
	if err := bindRequired(c, fetalHealthFields, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := ph.predictionService.PredictFetalHealth(c.Request.Context(), input)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "prediction_failed", err)
		return
	}
	RespondOK(c, result)
}

func (ph *PredictionHandler) PredictPregnancyRisk(c *gin.Context) {
	var vitals predict.VitalSigns
	if err := bindRequired(c, pregnancyRiskFields, &vitals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := ph.predictionService.PredictPregnancyRisk(c.Request.Context(), vitals)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "prediction_failed", err)
		return
	}
	RespondOK(c, result)
}

func (ph *PredictionHandler) GetHistory(c *gin.Context) {
	predictionType := c.Query("type")
	rows, err := ph.predictionService.GetHistory(c.Request.Context(), predictionType)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPredictionType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, gin.H{"history": rows, "count": len(rows)})
}
