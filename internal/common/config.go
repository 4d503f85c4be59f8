package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Pipeline PipelineConfig
	OCR      OCRConfig
	LLM      LLMConfig
}

// ServerConfig holds the trigger-service configuration
type ServerConfig struct {
	HTTPAddr string
	Mode     string // gin mode: debug | release | test
}

// StoreConfig holds run-store configuration
type StoreConfig struct {
	DBPath string // SQLite file; empty -> in-memory store
}

// PipelineConfig holds batch-pipeline configuration
type PipelineConfig struct {
	ArtifactDir    string
	ResultsPath    string
	XLSXPath       string // optional; empty disables the XLSX export
	MaxChunkTokens int
	Checkpoint     bool
	Watch          bool          // start a run when new artifacts land
	WatchDebounce  time.Duration // settle time before a watched run starts
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract     string
	Pdftotext     string
	Pdftoppm      string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
}

// LLMConfig holds language-model configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
			Mode:     getEnv("GIN_MODE", "release"),
		},
		Store: StoreConfig{
			DBPath: getEnv("DB_PATH", "./deedscan.db"),
		},
		Pipeline: PipelineConfig{
			ArtifactDir:    getEnv("ARTIFACT_DIR", "./artifacts"),
			ResultsPath:    getEnv("RESULTS_PATH", "./results.json"),
			XLSXPath:       getEnv("XLSX_PATH", ""),
			MaxChunkTokens: getEnvAsInt("MAX_CHUNK_TOKENS", 2000),
			Checkpoint:     getEnvAsBool("CHECKPOINT", true),
			Watch:          getEnvAsBool("WATCH_ARTIFACTS", false),
			WatchDebounce:  getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_BIN", ""),
			Pdftotext:     getEnv("PDFTOTEXT_BIN", ""),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", ""),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 500),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Pipeline.ArtifactDir == "" {
		return NewAppError("CONFIG_ERROR", "ARTIFACT_DIR is required", ErrInvalidInput)
	}
	if c.Pipeline.ResultsPath == "" {
		return NewAppError("CONFIG_ERROR", "RESULTS_PATH is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Pipeline.MaxChunkTokens < 1 {
		return NewAppError("CONFIG_ERROR", "MAX_CHUNK_TOKENS must be >= 1", ErrInvalidInput)
	}
	return nil
}
