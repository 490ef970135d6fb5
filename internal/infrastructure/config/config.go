package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fundchain/riskd/internal/domain/valueobject"
	"github.com/fundchain/riskd/internal/infrastructure/ml"
	pkgkafka "github.com/fundchain/riskd/pkg/kafka"
)

// Config holds all configuration for the risk service.
type Config struct {
	HTTPPort string `yaml:"http_port"`
	GRPCPort string `yaml:"grpc_port"`

	ModelPath   string               `yaml:"model_path"`
	ObjectStore ml.ObjectStoreConfig `yaml:"object_store"`

	DatabaseURL    string `yaml:"database_url"`
	MigrationsPath string `yaml:"migrations_path"`

	KafkaBrokers       []string `yaml:"kafka_brokers"`
	KafkaTopic         string   `yaml:"kafka_topic"`
	KafkaSASLMechanism string   `yaml:"kafka_sasl_mechanism"`
	KafkaSASLUsername  string   `yaml:"kafka_sasl_username"`
	KafkaSASLPassword  string   `yaml:"kafka_sasl_password"`
	KafkaTLS           bool     `yaml:"kafka_tls"`

	WeightML         string `yaml:"weight_ml"`
	WeightPlagiarism string `yaml:"weight_plagiarism"`
	WeightWallet     string `yaml:"weight_wallet"`

	BatchConcurrency   int      `yaml:"batch_concurrency"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	// RateLimitRPS caps REST requests per second; zero disables the limiter.
	RateLimitRPS       int      `yaml:"rate_limit_rps"`

	JWTSecret        string `yaml:"jwt_secret"`
	JWTPublicKeyFile string `yaml:"jwt_public_key_file"`
	JWTIssuer        string `yaml:"jwt_issuer"`

	GRPCTLSCertFile string `yaml:"grpc_tls_cert_file"`
	GRPCTLSKeyFile  string `yaml:"grpc_tls_key_file"`
	GRPCReflection  bool   `yaml:"grpc_reflection"`

	OTLPEndpoint string `yaml:"otlp_endpoint"`

	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		HTTPPort:           "8001",
		GRPCPort:           "9001",
		ModelPath:          "ml/models/scam_model.json",
		MigrationsPath:     "file://migrations",
		KafkaTopic:         "risk.events",
		WeightML:           "0.6",
		WeightPlagiarism:   "0.25",
		WeightWallet:       "0.15",
		BatchConcurrency:   4,
		CORSAllowedOrigins: []string{"*"},
		Environment:        "development",
		LogLevel:           "info",
		LogFormat:          "json",
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables. An empty path falls back to RISKD_CONFIG.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv("RISKD_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTPPort = getEnv("HTTP_PORT", c.HTTPPort)
	c.GRPCPort = getEnv("GRPC_PORT", c.GRPCPort)

	c.ModelPath = getEnv("MODEL_PATH", c.ModelPath)
	c.ObjectStore.Endpoint = getEnv("MINIO_ENDPOINT", c.ObjectStore.Endpoint)
	c.ObjectStore.AccessKey = getEnv("MINIO_ACCESS_KEY", c.ObjectStore.AccessKey)
	c.ObjectStore.SecretKey = getEnv("MINIO_SECRET_KEY", c.ObjectStore.SecretKey)
	c.ObjectStore.Region = getEnv("MINIO_REGION", c.ObjectStore.Region)

	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.MigrationsPath = getEnv("MIGRATIONS_PATH", c.MigrationsPath)

	c.KafkaBrokers = getEnvList("KAFKA_BROKERS", c.KafkaBrokers)
	c.KafkaTopic = getEnv("KAFKA_TOPIC", c.KafkaTopic)
	c.KafkaSASLMechanism = getEnv("KAFKA_SASL_MECHANISM", c.KafkaSASLMechanism)
	c.KafkaSASLUsername = getEnv("KAFKA_SASL_USERNAME", c.KafkaSASLUsername)
	c.KafkaSASLPassword = getEnv("KAFKA_SASL_PASSWORD", c.KafkaSASLPassword)

	c.WeightML = getEnv("RISK_WEIGHT_ML", c.WeightML)
	c.WeightPlagiarism = getEnv("RISK_WEIGHT_PLAGIARISM", c.WeightPlagiarism)
	c.WeightWallet = getEnv("RISK_WEIGHT_WALLET", c.WeightWallet)

	c.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTPublicKeyFile = getEnv("JWT_PUBLIC_KEY_FILE", c.JWTPublicKeyFile)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)

	c.GRPCTLSCertFile = getEnv("GRPC_TLS_CERT_FILE", c.GRPCTLSCertFile)
	c.GRPCTLSKeyFile = getEnv("GRPC_TLS_KEY_FILE", c.GRPCTLSKeyFile)

	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)

	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	var err error
	if c.ObjectStore.UseSSL, err = getEnvBool("MINIO_USE_SSL", c.ObjectStore.UseSSL); err != nil {
		return err
	}
	if c.KafkaTLS, err = getEnvBool("KAFKA_TLS", c.KafkaTLS); err != nil {
		return err
	}
	if c.GRPCReflection, err = getEnvBool("GRPC_REFLECTION", c.GRPCReflection); err != nil {
		return err
	}
	if c.BatchConcurrency, err = getEnvInt("BATCH_CONCURRENCY", c.BatchConcurrency); err != nil {
		return err
	}
	if c.RateLimitRPS, err = getEnvInt("RATE_LIMIT_RPS", c.RateLimitRPS); err != nil {
		return err
	}
	return nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}
	if c.GRPCPort == "" {
		errs = append(errs, errors.New("GRPC_PORT is required"))
	}
	if c.ModelPath == "" {
		errs = append(errs, errors.New("MODEL_PATH is required"))
	}
	if c.BatchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("BATCH_CONCURRENCY must be positive, got %d", c.BatchConcurrency))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %d", c.RateLimitRPS))
	}
	if _, err := c.ScoreWeights(); err != nil {
		errs = append(errs, err)
	}
	if (c.GRPCTLSCertFile == "") != (c.GRPCTLSKeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.PublishingEnabled() {
		if c.KafkaTopic == "" {
			errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
		}
		if err := c.Kafka().Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ScoreWeights parses the configured weight policy.
func (c *Config) ScoreWeights() (valueobject.ScoreWeights, error) {
	w, err := valueobject.ParseScoreWeights(c.WeightML, c.WeightPlagiarism, c.WeightWallet)
	if err != nil {
		return valueobject.ScoreWeights{}, fmt.Errorf("invalid risk weights: %w", err)
	}
	return w, nil
}

// RecordingEnabled reports whether assessments are persisted.
func (c *Config) RecordingEnabled() bool {
	return c.DatabaseURL != ""
}

// PublishingEnabled reports whether domain events are sent to Kafka.
func (c *Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Kafka returns the producer settings.
func (c *Config) Kafka() pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       c.KafkaBrokers,
		ClientID:      "riskd",
		SASLMechanism: c.KafkaSASLMechanism,
		SASLUsername:  c.KafkaSASLUsername,
		SASLPassword:  c.KafkaSASLPassword,
		TLS:           c.KafkaTLS,
	}
}

// AuthEnabled reports whether gRPC calls require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != "" || c.JWTPublicKeyFile != ""
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
