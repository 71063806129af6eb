package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	LLM     LLMConfig
	PDF     PDFConfig
	Cleanup CleanupConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// StorageConfig holds working-directory and job-store configuration
type StorageConfig struct {
	TempDir      string
	ConvertedDir string
	ResultsDir   string
	JobsDSN      string
}

// LLMConfig holds Gemini model configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
}

// PDFConfig holds page-rendering configuration
type PDFConfig struct {
	DPI          int
	MaxDimension int
	JPEGQuality  int
}

// CleanupConfig holds the retention sweeper configuration
type CleanupConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8000"),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 50)) << 20,
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			TempDir:      getEnv("TEMP_DIR", "./tmp/uploads"),
			ConvertedDir: getEnv("CONVERTED_DIR", "./tmp/converted"),
			ResultsDir:   getEnv("RESULTS_DIR", "./tmp/results"),
			JobsDSN:      getEnv("JOBS_DB", ""),
		},
		LLM: LLMConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 120*time.Second),
			MaxRetries:  getEnvAsInt("GEMINI_MAX_RETRIES", 2),
		},
		PDF: PDFConfig{
			DPI:          getEnvAsInt("PDF_DPI", 150),
			MaxDimension: getEnvAsInt("IMAGE_MAX_DIMENSION", 1200),
			JPEGQuality:  getEnvAsInt("IMAGE_JPEG_QUALITY", 85),
		},
		Cleanup: CleanupConfig{
			Interval:  getEnvAsDuration("CLEANUP_INTERVAL", 1*time.Hour),
			Retention: getEnvAsDuration("CLEANUP_RETENTION", 24*time.Hour),
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
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.PDF.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "PDF_DPI must be positive", ErrInvalidInput)
	}
	return nil
}
