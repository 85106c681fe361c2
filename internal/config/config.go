// Package config resolves the plan horizon, seed resources, and presentation
// settings from defaults, an optional YAML file, the environment, and flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/export"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds every setting a session needs before the tables exist.
type Config struct {
	StartYear    int              `yaml:"start_year" validate:"gte=1,lte=9999"`
	StartMonth   int              `yaml:"start_month" validate:"gte=1,lte=12"`
	Months       int              `yaml:"months" validate:"gte=2,lte=1200"`
	Phase1Months int              `yaml:"phase1_months" validate:"gte=1,ltfield=Months"`
	Title        string           `yaml:"title"`
	Caption      string           `yaml:"caption"`
	ExportFile   string           `yaml:"export_file" validate:"required"`
	HeatMax      int              `yaml:"heat_max" validate:"gte=1"`
	Resources    []domain.SeedRow `yaml:"resources" validate:"required,min=1,dive"`
	LogUseCases  bool             `yaml:"log_use_cases"`
	LogFile      string           `yaml:"log_file"`
}

// Default returns the Project Phoenix plan: 25 months from July 2025,
// split 12/13, with the five standard resources.
func Default() Config {
	return Config{
		StartYear:    2025,
		StartMonth:   7,
		Months:       25,
		Phase1Months: 12,
		Title:        "Project Phoenix: Resource & Delivery Plan",
		Caption:      "Global Transformation Office",
		ExportFile:   export.DefaultFileName,
		HeatMax:      22,
		Resources:    domain.DefaultSeedRows(),
	}
}

// Load layers the YAML file named by POAP_CONFIG and the POAP_* environment
// variables over the defaults. Flags are layered later by BindFlags, so Load
// does not validate.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("POAP_CONFIG"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MergeFile overrides the fields present in the YAML file at path.
// Unknown keys are rejected.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return &domain.ConfigurationError{Field: "file", Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return nil
}

func (c *Config) applyEnv() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"POAP_START_YEAR", &c.StartYear},
		{"POAP_START_MONTH", &c.StartMonth},
		{"POAP_MONTHS", &c.Months},
		{"POAP_PHASE1_MONTHS", &c.Phase1Months},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &domain.ConfigurationError{Field: e.key, Reason: fmt.Sprintf("%q is not an integer", v)}
		}
		*e.dst = n
	}
	if v := os.Getenv("POAP_EXPORT_FILE"); v != "" {
		c.ExportFile = v
	}
	if v := os.Getenv("POAP_LOG_USE_CASES"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return &domain.ConfigurationError{Field: "POAP_LOG_USE_CASES", Reason: fmt.Sprintf("%q is not a boolean", v)}
		}
		c.LogUseCases = b
	}
	if v := os.Getenv("POAP_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	return nil
}

// BindFlags registers the horizon flags on fs, defaulting to the values
// already loaded into c. Parsing fs writes straight into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.StartYear, "start-year", c.StartYear, "first calendar year of the plan")
	fs.IntVar(&c.StartMonth, "start-month", c.StartMonth, "first month of the plan (1-12)")
	fs.IntVar(&c.Months, "months", c.Months, "number of months in the horizon")
	fs.IntVar(&c.Phase1Months, "phase1-months", c.Phase1Months, "months in phase 1; the rest form phase 2")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks c and reports the first failure as a
// *domain.ConfigurationError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ConfigurationError{Field: "config", Reason: err.Error()}
	}
	fe := verrs[0]
	return &domain.ConfigurationError{Field: fieldPath(fe.Namespace()), Reason: describe(fe)}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s (got %v)", fe.Param(), fe.Value())
	case "ltfield":
		return fmt.Sprintf("must be less than months (got %v)", fe.Value())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

// Horizon builds the validated calendar for c.
func (c Config) Horizon() (domain.Horizon, error) {
	if err := c.Validate(); err != nil {
		return domain.Horizon{}, err
	}
	return domain.NewHorizon(c.StartYear, c.StartMonth, c.Months, c.Phase1Months)
}
