package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"labelprint-service/models"
	awspkg "labelprint-service/pkg/aws"
	"labelprint-service/providers"
	"labelprint-service/services"
)

// Config holds all configuration for the label print service.
type Config struct {
	Port   string `validate:"required,numeric"`
	AppEnv string

	Sprint   providers.Config
	Baracoda providers.Config
	Print    services.Config

	Printers    []models.Printer `validate:"dive"`
	TemplateDir string

	RedisURL       string
	IdempotencyTTL time.Duration `validate:"gt=0"`

	EventsSNSTopicARN string
	KafkaBrokers      []string
	EventsTopic       string

	CloudWatchEnabled   bool
	CloudWatchNamespace string

	CORSAllowedOrigins string
	RateLimitPerMinute int `validate:"gt=0"`
	RateLimitBurst     int `validate:"gt=0"`
}

// SecretGetter reads a named secret.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads configuration from the environment, and from a .env file
// when one exists. With AWS_USE_SECRETS=true the API key is read from
// Secrets Manager.
func LoadConfig(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		if err := ApplySecrets(ctx, cfg, awspkg.NewSecretsClient(awsCfg), getEnv("API_KEY_SECRET_NAME", "labelprint/API_KEY")); err != nil {
			return nil, err
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() (*Config, error) {
	timeout, err := getDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	idempotencyTTL, err := getDuration("IDEMPOTENCY_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	perMinute, err := getInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}
	burst, err := getInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}
	printers, err := LoadPrinters(os.Getenv("PRINTERS_FILE"), getEnv("PRINTERS", "a,b,c"))
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("API_KEY")
	return &Config{
		Port:   getEnv("PORT", "8095"),
		AppEnv: getEnv("APP_ENV", "development"),
		Sprint: providers.Config{
			BaseURL: getEnv("SPRINT_BASE_URL", "http://sprint"),
			Timeout: timeout,
		},
		Baracoda: providers.Config{
			BaseURL: getEnv("BARACODA_BASE_URL", "http://baracoda"),
			APIKey:  apiKey,
			Timeout: timeout,
		},
		Print: services.Config{
			BarcodeGroup:   getEnv("DESTINATION_PLATE_BARCODES_GROUP", "HT"),
			ProjectAcronym: getEnv("PROJECT_ACRONYM", "HT"),
		},
		Printers:            printers,
		TemplateDir:         os.Getenv("LABEL_TEMPLATE_DIR"),
		RedisURL:            os.Getenv("REDIS_URL"),
		IdempotencyTTL:      idempotencyTTL,
		EventsSNSTopicARN:   os.Getenv("PRINT_EVENTS_SNS_TOPIC_ARN"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:         getEnv("PRINT_EVENTS_TOPIC", "label-print-events"),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "LabelPrint"),
		CORSAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		RateLimitPerMinute:  perMinute,
		RateLimitBurst:      burst,
	}, nil
}

// ApplySecrets overrides the barcode service API key with the named secret.
func ApplySecrets(ctx context.Context, cfg *Config, sm SecretGetter, name string) error {
	v, err := sm.GetSecret(ctx, name)
	if err != nil {
		return fmt.Errorf("load api key: %w", err)
	}
	if v = strings.TrimSpace(v); v != "" {
		cfg.Baracoda.APIKey = v
	}
	return nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
