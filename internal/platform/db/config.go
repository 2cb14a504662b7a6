package db

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath    = "config/config.yaml"
	defaultAddr          = ":8080"
	defaultLateAfterDays = 4
	defaultTokenTTL      = 24 * time.Hour
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // mysql | postgres | pgx | sqlite3
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	// sqlite3 のときだけ使う
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

// TLS は cert と key の両方が指定されたときだけ有効
func (s ServerConfig) TLS() bool {
	return s.Cert != "" && s.Key != ""
}

type AuthConfig struct {
	Enabled   bool          `yaml:"enabled"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LoansConfig struct {
	LateAfterDays int `yaml:"late_after_days"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type Config struct {
	Version string         `yaml:"version"`
	Mode    string         `yaml:"mode"`
	Server  ServerConfig   `yaml:"server"`
	DB      DatabaseConfig `yaml:"database"`
	Auth    AuthConfig     `yaml:"auth"`
	Loans   LoansConfig    `yaml:"loans"`
	CORS    CORSConfig     `yaml:"cors"`
}

// LoadConfig は yaml を読み込み、未指定の項目にデフォルト値を入れる。
// path が空なら config/config.yaml。
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.DB.Driver == "" {
		c.DB.Driver = DriverMySQL
	}
	if c.Loans.LateAfterDays <= 0 {
		c.Loans.LateAfterDays = defaultLateAfterDays
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}
	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = []string{"http://localhost:3000"}
	}
}

func (c *Config) validate() error {
	if c.Mode != "dev" && c.Mode != "release" {
		return fmt.Errorf("mode は dev か release: %q", c.Mode)
	}
	if _, err := dialectName(c.DB.Driver); err != nil {
		return err
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.enabled のときは auth.jwt_secret が必須")
	}
	return nil
}
