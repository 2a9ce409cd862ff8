package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tempwave/internal/logging"
	"tempwave/internal/wave"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string
	LogDir   string
	DBPath   string
	Analysis AnalysisConfig
}

// AnalysisConfig holds the defaults for an analysis run. CLI flags and tool
// arguments override them.
type AnalysisConfig struct {
	Direction     wave.Direction
	HeatThreshold float64
	ColdThreshold float64
	MinDuration   int
	DayCount      wave.DayCount
	LeapDayIndex  int
	Workers       int
}

// Threshold returns the configured fixed threshold for the configured direction.
func (a AnalysisConfig) Threshold() float64 {
	if a.Direction == wave.Cold {
		return a.ColdThreshold
	}
	return a.HeatThreshold
}

// Options converts the configuration into aggregation options.
func (a AnalysisConfig) Options() wave.Options {
	return wave.Options{
		Direction:    a.Direction,
		MinDuration:  a.MinDuration,
		DayCount:     a.DayCount,
		LeapDayIndex: a.LeapDayIndex,
		Workers:      a.Workers,
	}
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, exeErr := os.Executable()
	exeDir := ""
	if exeErr == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	// Same directory logging.Init writes to.
	logDir := logging.LogDir(exePath, exeErr)
	dbPath := getEnv("TEMPWAVE_DB", filepath.Join(dataPath, "tempwave.db"))

	// 4. Analysis defaults
	analysis, err := loadAnalysis()
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		DataPath: dataPath,
		LogDir:   logDir,
		DBPath:   dbPath,
		Analysis: analysis,
	}

	return cfg, nil
}

func loadAnalysis() (AnalysisConfig, error) {
	dir, err := wave.ParseDirection(getEnv("TEMPWAVE_MODE", "heat"))
	if err != nil {
		return AnalysisConfig{}, fmt.Errorf("TEMPWAVE_MODE: %w", err)
	}
	dayCount, err := wave.ParseDayCount(getEnv("TEMPWAVE_DAY_COUNT", "episode"))
	if err != nil {
		return AnalysisConfig{}, fmt.Errorf("TEMPWAVE_DAY_COUNT: %w", err)
	}

	a := AnalysisConfig{
		Direction:     dir,
		HeatThreshold: getEnvFloat("TEMPWAVE_HEAT_THRESHOLD", wave.DefaultHeatThreshold),
		ColdThreshold: getEnvFloat("TEMPWAVE_COLD_THRESHOLD", wave.DefaultColdThreshold),
		MinDuration:   getEnvInt("TEMPWAVE_MIN_DURATION", wave.DefaultMinDuration),
		DayCount:      dayCount,
		LeapDayIndex:  getEnvInt("TEMPWAVE_LEAP_DAY_INDEX", wave.DefaultLeapDayIndex),
		Workers:       getEnvInt("TEMPWAVE_WORKERS", 0),
	}
	if a.MinDuration < 1 {
		return AnalysisConfig{}, fmt.Errorf("TEMPWAVE_MIN_DURATION must be at least 1, got %d", a.MinDuration)
	}
	return a, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer setting")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}
