// Service configuration, read from the environment (and .env when present).

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	defaultHMMDBPath      = "data/methmmdb_v1.0.hmm"
	defaultMetadataPath   = "data/browse_models_data.json"
	defaultLogLevel       = "INFO"
	defaultEValue         = 1e-5
	defaultMaxEValue      = 10.0
	defaultAllowedOrigins = "*"
	defaultNumCPUs        = 4
	defaultHMMSearchBin   = "hmmsearch"
	defaultListenAddr     = "0.0.0.0:8080"
)

type Settings struct {
	HMMDBPath      string   `validate:"required"`
	MetadataPath   string   `validate:"required"`
	CatalogPath    string   // optional SQLite model catalog
	LogLevel       string   `validate:"required"`
	LogFile        string   // optional rotating log file
	DefaultEValue  float64  `validate:"gte=0,ltefield=MaxEValue"`
	MaxEValue      float64  `validate:"gte=0"`
	AllowedOrigins []string `validate:"required,min=1,dive,required"`
	NumCPUs        int      `validate:"gte=1"`
	HMMSearchBin   string   `validate:"required"`
	ListenAddr     string   `validate:"required"`
}

// Validate checks the settings after they are read from the environment.
func (s *Settings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for Settings: %w", err)
	}
	return nil
}

// FromEnv reads settings through getenv (normally os.Getenv) and applies
// defaults for unset variables.
func FromEnv(getenv func(string) string) (*Settings, error) {
	s := &Settings{
		HMMDBPath:    stringOr(getenv("HMM_DB_PATH"), defaultHMMDBPath),
		MetadataPath: stringOr(getenv("METADATA_PATH"), defaultMetadataPath),
		CatalogPath:  strings.TrimSpace(getenv("MODEL_CATALOG_PATH")),
		LogLevel:     stringOr(getenv("LOG_LEVEL"), defaultLogLevel),
		LogFile:      strings.TrimSpace(getenv("LOG_FILE")),
		HMMSearchBin: stringOr(getenv("HMMSEARCH_BIN"), defaultHMMSearchBin),
		ListenAddr:   stringOr(getenv("LISTEN_ADDR"), defaultListenAddr),
	}

	var err error
	if s.DefaultEValue, err = floatOr(getenv("DEFAULT_EVALUE_THRESHOLD"), defaultEValue); err != nil {
		return nil, fmt.Errorf("DEFAULT_EVALUE_THRESHOLD: %w", err)
	}
	if s.MaxEValue, err = floatOr(getenv("MAX_EVALUE_THRESHOLD"), defaultMaxEValue); err != nil {
		return nil, fmt.Errorf("MAX_EVALUE_THRESHOLD: %w", err)
	}
	if s.NumCPUs, err = intOr(getenv("NUM_CPUS"), defaultNumCPUs); err != nil {
		return nil, fmt.Errorf("NUM_CPUS: %w", err)
	}

	for _, origin := range strings.Split(stringOr(getenv("ALLOWED_ORIGINS"), defaultAllowedOrigins), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			s.AllowedOrigins = append(s.AllowedOrigins, origin)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load is FromEnv over the process environment.
func Load() (*Settings, error) {
	return FromEnv(os.Getenv)
}

func stringOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func floatOr(v string, fallback float64) (float64, error) {
	if v = strings.TrimSpace(v); v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func intOr(v string, fallback int) (int, error) {
	if v = strings.TrimSpace(v); v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
