package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
)

// Config holds configuration for the itch commands
type Config struct {
	// Service name, attached to every log line
	ServiceName string

	// gRPC health server port
	GRPCPort int

	// HTTP server port (/healthz, /metrics, /progress)
	HTTPPort int

	// Log level: debug, info, warn, error
	LogLevel string

	// Decode mode: strict or fast
	Mode string

	// Kafka brokers (comma-separated)
	KafkaBrokers string

	// Kafka client id
	KafkaClientID string

	// Topic decoded records are published to
	Topic string

	// SQLite database for capture sessions and publish checkpoints
	StorePath string

	// Records between checkpoint saves while publishing
	CheckpointEvery int

	// Upper bound on produced-but-unacknowledged records
	MaxInFlight int
}

// fileConfig is the TOML layout of a config file.
type fileConfig struct {
	GRPCPort        int    `toml:"grpc_port"`
	HTTPPort        int    `toml:"http_port"`
	LogLevel        string `toml:"log_level"`
	Mode            string `toml:"mode"`
	KafkaBrokers    string `toml:"kafka_brokers"`
	KafkaClientID   string `toml:"kafka_client_id"`
	Topic           string `toml:"topic"`
	StorePath       string `toml:"store_path"`
	CheckpointEvery int    `toml:"checkpoint_every"`
	MaxInFlight     int    `toml:"max_in_flight"`
}

// Defaults returns the built-in configuration for a service
func Defaults(serviceName string) *Config {
	return &Config{
		ServiceName:     serviceName,
		GRPCPort:        50051,
		HTTPPort:        8080,
		LogLevel:        "info",
		Mode:            "strict",
		KafkaBrokers:    "127.0.0.1:9092",
		KafkaClientID:   "itch-decoder",
		Topic:           "itch.messages",
		StorePath:       "itch.db",
		CheckpointEvery: 10000,
		MaxInFlight:     10000,
	}
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig(serviceName string) *Config {
	cfg := Defaults(serviceName)
	cfg.applyEnv()
	return cfg
}

// Load reads an optional TOML file over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(serviceName, path string) (*Config, error) {
	cfg := Defaults(serviceName)
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("grpc_port") {
		c.GRPCPort = raw.GRPCPort
	}
	if meta.IsDefined("http_port") {
		c.HTTPPort = raw.HTTPPort
	}
	if meta.IsDefined("log_level") {
		c.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("mode") {
		c.Mode = strings.TrimSpace(raw.Mode)
	}
	if meta.IsDefined("kafka_brokers") {
		c.KafkaBrokers = strings.TrimSpace(raw.KafkaBrokers)
	}
	if meta.IsDefined("kafka_client_id") {
		c.KafkaClientID = strings.TrimSpace(raw.KafkaClientID)
	}
	if meta.IsDefined("topic") {
		c.Topic = strings.TrimSpace(raw.Topic)
	}
	if meta.IsDefined("store_path") {
		c.StorePath = strings.TrimSpace(raw.StorePath)
	}
	if meta.IsDefined("checkpoint_every") {
		c.CheckpointEvery = raw.CheckpointEvery
	}
	if meta.IsDefined("max_in_flight") {
		c.MaxInFlight = raw.MaxInFlight
	}
	return nil
}

func (c *Config) applyEnv() {
	c.GRPCPort = getEnvAsInt("PORT_GRPC", c.GRPCPort)
	c.HTTPPort = getEnvAsInt("PORT_HTTP", c.HTTPPort)
	c.LogLevel = getEnvAsString("LOG_LEVEL", c.LogLevel)
	c.Mode = getEnvAsString("ITCH_MODE", c.Mode)
	c.KafkaBrokers = getEnvAsString("KAFKA_BROKERS", c.KafkaBrokers)
	c.KafkaClientID = getEnvAsString("KAFKA_CLIENT_ID", c.KafkaClientID)
	c.Topic = getEnvAsString("ITCH_TOPIC", c.Topic)
	c.StorePath = getEnvAsString("ITCH_STORE_PATH", c.StorePath)
	c.CheckpointEvery = getEnvAsInt("ITCH_CHECKPOINT_EVERY", c.CheckpointEvery)
	c.MaxInFlight = getEnvAsInt("ITCH_MAX_IN_FLIGHT", c.MaxInFlight)
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if _, err := c.DecodeMode(); err != nil {
		return err
	}
	if c.CheckpointEvery <= 0 {
		return fmt.Errorf("checkpoint_every must be positive, got %d", c.CheckpointEvery)
	}
	if c.MaxInFlight <= 0 {
		return fmt.Errorf("max_in_flight must be positive, got %d", c.MaxInFlight)
	}
	return nil
}

// DecodeMode parses Mode
func (c *Config) DecodeMode() (itch.Mode, error) {
	return itch.ParseMode(c.Mode)
}

// Brokers splits KafkaBrokers into addresses
func (c *Config) Brokers() []string {
	return ParseBrokers(c.KafkaBrokers)
}

// GRPCAddr returns the gRPC server address
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddr returns the HTTP server address
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// ParseBrokers splits a comma-separated broker list, dropping blanks
func ParseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
