package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Persistence
	DBPath string

	// LLM grading
	Grader       string // "openai" or "static"
	LLMBaseURL   string // OpenAI-compatible endpoint, e.g. "https://open.bigmodel.cn/api/paas/v4"
	LLMAPIKey    string
	LLMModel     string // model name, e.g. "glm-4"
	GradeTimeout time.Duration

	// Concurrency bounds
	AnswerWorkers  int // grader calls in flight per student
	StudentWorkers int // students graded at once per batch job
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	cfg := &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:          getenvDefault("DB_PATH", "smartgrade.db"),
		Grader:          getenvDefault("GRADER", "openai"),
		LLMBaseURL:      getenvDefault("LLM_BASE_URL", "https://open.bigmodel.cn/api/paas/v4"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMModel:        getenvDefault("LLM_MODEL", "glm-4"),
		GradeTimeout:    getenvDuration("GRADE_TIMEOUT", 2*time.Minute),
		AnswerWorkers:   getenvInt("ANSWER_WORKERS", 3),
		StudentWorkers:  getenvInt("STUDENT_WORKERS", 4),
	}
	if cfg.Grader == "openai" && cfg.LLMAPIKey == "" {
		log.Fatal("config: LLM_API_KEY is required when GRADER=openai")
	}
	return cfg
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}
