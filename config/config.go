package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Settlement SettlementConfig `yaml:"settlement"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers               []string `yaml:"brokers"`
	LedgerEventsTopic     string   `yaml:"ledger_events_topic"`
	NotificationsTopic    string   `yaml:"notifications_topic"`
	GroupID               string   `yaml:"group_id"`
	HeartbeatSeconds      int      `yaml:"heartbeat_seconds"`
	SessionTimeoutSeconds int      `yaml:"session_timeout_seconds"`
}

// SettlementConfig is fixed at startup; the engine has no setters for these.
type SettlementConfig struct {
	TaxPercent     int    `yaml:"tax_percent"`
	SecurityFee    int64  `yaml:"security_fee"`
	PlatformOwner  string `yaml:"platform_owner"`
	LockTTLSeconds int    `yaml:"lock_ttl_seconds"`
}

type WorkerConfig struct {
	AuditSweepMinutes int `yaml:"audit_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Settlement.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (s SettlementConfig) validate() error {
	if s.TaxPercent < 0 || s.TaxPercent > 100 {
		return fmt.Errorf("settlement.tax_percent must be in [0,100], got %d", s.TaxPercent)
	}
	if s.SecurityFee < 0 {
		return fmt.Errorf("settlement.security_fee must be non-negative, got %d", s.SecurityFee)
	}
	if s.PlatformOwner == "" {
		return fmt.Errorf("settlement.platform_owner is required")
	}
	return nil
}
