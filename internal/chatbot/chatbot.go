package chatbot

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pregai/pregai-backend/internal/logger"
)

//go:embed knowledge.yaml
var knowledgeYAML []byte

type knowledgeBase struct {
	Greeting string `yaml:"greeting"`
	Symptoms struct {
		MorningSickness string `yaml:"morning_sickness"`
		Fatigue         string `yaml:"fatigue"`
		BackPain        string `yaml:"back_pain"`
		Headache        string `yaml:"headache"`
		Swelling        string `yaml:"swelling"`
	} `yaml:"symptoms"`
	Nutrition struct {
		FoodsToEat   string `yaml:"foods_to_eat"`
		FoodsToAvoid string `yaml:"foods_to_avoid"`
		Supplements  string `yaml:"supplements"`
	} `yaml:"nutrition"`
	Exercise struct {
		SafeExercises    string `yaml:"safe_exercises"`
		ExercisesToAvoid string `yaml:"exercises_to_avoid"`
	} `yaml:"exercise"`
	TrimesterInfo struct {
		First  string `yaml:"first"`
		Second string `yaml:"second"`
		Third  string `yaml:"third"`
	} `yaml:"trimester_info"`
	WarningSigns struct {
		Emergency string `yaml:"emergency"`
	} `yaml:"warning_signs"`
	BabyDevelopment string `yaml:"baby_development"`
	DueDate         string `yaml:"due_date"`
	Default         string `yaml:"default"`
}

// MessageSuggestions are returned alongside every chat reply.
var MessageSuggestions = []string{
	"What foods should I eat?",
	"What are safe exercises?",
	"Tell me about first trimester",
	"What are warning signs?",
}

// StarterSuggestions seed an empty conversation.
var StarterSuggestions = []string{
	"How to manage morning sickness?",
	"What foods should I avoid?",
	"Safe exercises during pregnancy",
	"What to expect in second trimester?",
	"When should I call the doctor?",
}

// Responder answers pregnancy questions by keyword matching against a fixed
// knowledge base. It holds no per-conversation state.
type Responder struct {
	log       *logger.Logger
	knowledge knowledgeBase
}

func NewResponder(log *logger.Logger) (*Responder, error) {
	var kb knowledgeBase
	if err := yaml.Unmarshal(knowledgeYAML, &kb); err != nil {
		return nil, fmt.Errorf("failed to parse chatbot knowledge base: %w", err)
	}
	return &Responder{
		log:       log.With("service", "ChatbotResponder"),
		knowledge: kb,
	}, nil
}

func containsAny(message string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(message, w) {
			return true
		}
	}
	return false
}

// Reply picks the first matching topic; rule order is significant and
// mirrors the knowledge base layout.
func (r *Responder) Reply(message string) string {
	kb := r.knowledge
	m := strings.ToLower(message)

	// Greetings
	if containsAny(m, "hello", "hi", "hey", "good morning", "good evening") {
		return kb.Greeting
	}

	// Symptoms
	if containsAny(m, "nausea", "vomit", "morning sickness", "sick") {
		return kb.Symptoms.MorningSickness
	}
	if containsAny(m, "tired", "fatigue", "exhausted", "sleepy") {
		return kb.Symptoms.Fatigue
	}
	if containsAny(m, "back pain", "backache", "back hurts") {
		return kb.Symptoms.BackPain
	}
	if containsAny(m, "headache", "head pain", "migraine") {
		return kb.Symptoms.Headache
	}
	if containsAny(m, "swelling", "swollen", "edema") {
		return kb.Symptoms.Swelling
	}

	// Nutrition
	if containsAny(m, "eat", "food", "diet", "nutrition", "what to eat") {
		if containsAny(m, "avoid", "not", "don't", "harmful") {
			return kb.Nutrition.FoodsToAvoid
		}
		return kb.Nutrition.FoodsToEat
	}
	if containsAny(m, "vitamin", "supplement", "folic", "iron") {
		return kb.Nutrition.Supplements
	}

	// Exercise
	if containsAny(m, "exercise", "workout", "physical activity", "yoga", "swimming") {
		if containsAny(m, "avoid", "not", "don't", "unsafe") {
			return kb.Exercise.ExercisesToAvoid
		}
		return kb.Exercise.SafeExercises
	}

	// Trimester info
	if strings.Contains(m, "first trimester") || strings.Contains(m, "trimester 1") {
		return kb.TrimesterInfo.First
	}
	if strings.Contains(m, "second trimester") || strings.Contains(m, "trimester 2") {
		return kb.TrimesterInfo.Second
	}
	if strings.Contains(m, "third trimester") || strings.Contains(m, "trimester 3") {
		return kb.TrimesterInfo.Third
	}
	if strings.Contains(m, "trimester") {
		return kb.TrimesterInfo.First + "\n\n" + kb.TrimesterInfo.Second + "\n\n" + kb.TrimesterInfo.Third
	}

	// Warning signs
	if containsAny(m, "emergency", "warning", "danger", "bleeding", "severe pain", "hospital") {
		return kb.WarningSigns.Emergency
	}

	// Baby development
	if containsAny(m, "baby", "fetus", "development", "growing") {
		return kb.BabyDevelopment
	}

	// Due date
	if containsAny(m, "due date", "delivery date", "when will baby") {
		return kb.DueDate
	}

	return kb.Default
}
