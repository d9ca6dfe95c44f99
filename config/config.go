package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Minio      MinioConfig      `yaml:"minio"`
	Sources    SourcesConfig    `yaml:"sources"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Search     SearchConfig     `yaml:"search"`
	Rules      RulesConfig      `yaml:"rules"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// SourcesConfig names the tabular objects per import route. AirSheet and
// SeaSheet pick the worksheet when an object is an .xlsx workbook; they are
// ignored for flat CSV objects.
type SourcesConfig struct {
	AirObject     string `yaml:"air_object"`
	AirSheet      string `yaml:"air_sheet"`
	SeaObject     string `yaml:"sea_object"`
	SeaSheet      string `yaml:"sea_sheet"`
	TransitObject string `yaml:"transit_object"`
	TransitSheet  string `yaml:"transit_sheet"`
	HeaderRow     int    `yaml:"header_row"`
}

type SummarizerConfig struct {
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Retries   int    `yaml:"retries"`
}

type SearchConfig struct {
	Limit     int `yaml:"limit"`
	Threshold int `yaml:"threshold"`
}

type RulesConfig struct {
	Variant string `yaml:"variant"` // classic, extended, refined
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Minio.TimeoutMs == 0 {
		cfg.Minio.TimeoutMs = 30000
	}
	if cfg.Sources.AirSheet == "" {
		cfg.Sources.AirSheet = "CONTROL_PEDIDOS"
	}
	if cfg.Sources.SeaSheet == "" {
		cfg.Sources.SeaSheet = "CTRL"
	}
	if cfg.Sources.HeaderRow == 0 {
		cfg.Sources.HeaderRow = 3
	}
	if cfg.Summarizer.APIURL == "" {
		cfg.Summarizer.APIURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = "gemini-pro"
	}
	if cfg.Summarizer.TimeoutMs == 0 {
		cfg.Summarizer.TimeoutMs = 60000
	}
	if cfg.Summarizer.Retries == 0 {
		cfg.Summarizer.Retries = 1
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = 10
	}
	if cfg.Search.Threshold == 0 {
		cfg.Search.Threshold = 80
	}
	if cfg.Rules.Variant == "" {
		cfg.Rules.Variant = "refined"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	GlobalConfig = &cfg
	return &cfg, nil
}
