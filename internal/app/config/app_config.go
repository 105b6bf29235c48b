package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	envcfg "mom-generator/internal/config"
)

// DefaultConfigPath is used when no --config flag is given
const DefaultConfigPath = "config/mom.yaml"

// AppConfig is the complete application configuration
type AppConfig struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	LLM           LLMConfig           `yaml:"llm"`
	Languages     []string            `yaml:"languages"`
	Audio         AudioConfig         `yaml:"audio"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	Storage       StorageConfig       `yaml:"storage"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Environment     string `yaml:"environment"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	MaxUploadMB     int    `yaml:"max_upload_mb"`
}

// AuthConfig holds the fixed login pair and token signing settings
type AuthConfig struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Secret      string `yaml:"secret"`
	CookieName  string `yaml:"cookie_name"`
	TokenTTLMin int    `yaml:"token_ttl_min"`

	// SecureCookie marks the session cookie HTTPS-only
	SecureCookie bool `yaml:"secure_cookie"`
}

// TranscriptionConfig selects and tunes the speech-to-text providers
type TranscriptionConfig struct {
	DefaultProvider string         `yaml:"default_provider"`
	FallbackChain   []string       `yaml:"fallback_chain"`
	MaxRetries      int            `yaml:"max_retries"`
	RetryDelayMs    int            `yaml:"retry_delay_ms"`
	Deepgram        DeepgramConfig `yaml:"deepgram"`
	Whisper         WhisperConfig  `yaml:"openai_whisper"`
}

// DeepgramConfig holds Deepgram endpoints and model options
type DeepgramConfig struct {
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	LiveURL        string `yaml:"live_url"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	SpeechLanguage string `yaml:"speech_language"`
}

// WhisperConfig controls the OpenAI Whisper fallback provider
type WhisperConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

// LLMConfig holds translation and minutes generation parameters
type LLMConfig struct {
	Provider           string  `yaml:"provider"`
	BaseURL            string  `yaml:"base_url"`
	Model              string  `yaml:"model"`
	TranslateModel     string  `yaml:"translate_model"`
	MaxTokens          int     `yaml:"max_tokens"`
	TranslateMaxTokens int     `yaml:"translate_max_tokens"`
	Temperature        float32 `yaml:"temperature"`
	PresencePenalty    float32 `yaml:"presence_penalty"`
	FrequencyPenalty   float32 `yaml:"frequency_penalty"`
	MaxRetries         int     `yaml:"max_retries"`
	RetryDelayMs       int     `yaml:"retry_delay_ms"`
	PromptStyle        string  `yaml:"prompt_style"`
}

// AudioConfig controls upload normalisation
type AudioConfig struct {
	SkipNormalize    bool `yaml:"skip_normalize"`
	TargetSampleRate int  `yaml:"target_sample_rate"`
}

// DatabaseConfig selects the meeting store
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig configures the transcript cache
type CacheConfig struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLSec        int    `yaml:"ttl_sec"`
	Size          int    `yaml:"size"`
}

// StorageConfig configures the MinIO audio archive
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Default returns the configuration used when no file is present
func Default() *AppConfig {
	c := &AppConfig{}
	c.setDefaults()
	return c
}

// LoadAppConfig reads configPath, falling back to defaults when it does not exist.
// ${VAR} references are expanded before parsing and environment overrides are applied last.
func LoadAppConfig(configPath string) (*AppConfig, error) {
	configPath = os.ExpandEnv(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			c := Default()
			c.applyEnvOverrides()
			return c, c.Validate()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseAppConfig(data)
}

// ParseAppConfig parses YAML configuration data
func ParseAppConfig(data []byte) (*AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	c.setDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// SaveAppConfig writes the configuration as YAML
func SaveAppConfig(c *AppConfig, configPath string) error {
	configPath = os.ExpandEnv(configPath)
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *AppConfig) setDefaults() {
	s := &c.Server
	s.Host = lo.Ternary(s.Host == "", "0.0.0.0", s.Host)
	s.Port = lo.Ternary(s.Port == 0, 8081, s.Port)
	s.Environment = lo.Ternary(s.Environment == "", "production", s.Environment)
	s.ReadTimeoutSec = lo.Ternary(s.ReadTimeoutSec == 0, 60, s.ReadTimeoutSec)
	s.WriteTimeoutSec = lo.Ternary(s.WriteTimeoutSec == 0, 300, s.WriteTimeoutSec)
	s.MaxUploadMB = lo.Ternary(s.MaxUploadMB == 0, 200, s.MaxUploadMB)

	a := &c.Auth
	a.Username = lo.Ternary(a.Username == "", "admin", a.Username)
	a.Password = lo.Ternary(a.Password == "", "admin", a.Password)
	a.CookieName = lo.Ternary(a.CookieName == "", "mom_session", a.CookieName)
	a.TokenTTLMin = lo.Ternary(a.TokenTTLMin == 0, 12*60, a.TokenTTLMin)

	t := &c.Transcription
	t.DefaultProvider = lo.Ternary(t.DefaultProvider == "", "deepgram", t.DefaultProvider)
	if t.RetryDelayMs == 0 {
		t.RetryDelayMs = 1000
	}
	d := &t.Deepgram
	d.Model = lo.Ternary(d.Model == "", "nova-2", d.Model)
	d.BaseURL = lo.Ternary(d.BaseURL == "", "https://api.deepgram.com/v1", d.BaseURL)
	d.LiveURL = lo.Ternary(d.LiveURL == "", "wss://api.deepgram.com/v1", d.LiveURL)
	d.TimeoutSec = lo.Ternary(d.TimeoutSec == 0, 300, d.TimeoutSec)
	t.Whisper.Model = lo.Ternary(t.Whisper.Model == "", "whisper-1", t.Whisper.Model)

	l := &c.LLM
	l.Provider = lo.Ternary(l.Provider == "", "openai", l.Provider)
	l.Model = lo.Ternary(l.Model == "", "gpt-3.5-turbo", l.Model)
	l.TranslateModel = lo.Ternary(l.TranslateModel == "", l.Model, l.TranslateModel)
	l.MaxTokens = lo.Ternary(l.MaxTokens == 0, 1500, l.MaxTokens)
	l.TranslateMaxTokens = lo.Ternary(l.TranslateMaxTokens == 0, 2000, l.TranslateMaxTokens)
	l.Temperature = lo.Ternary(l.Temperature == 0, 0.7, l.Temperature)
	l.MaxRetries = lo.Ternary(l.MaxRetries == 0, 3, l.MaxRetries)
	l.RetryDelayMs = lo.Ternary(l.RetryDelayMs == 0, 1000, l.RetryDelayMs)
	l.PromptStyle = lo.Ternary(l.PromptStyle == "", "standard", l.PromptStyle)

	if len(c.Languages) == 0 {
		c.Languages = []string{"English", "Japanese"}
	}

	c.Audio.TargetSampleRate = lo.Ternary(c.Audio.TargetSampleRate == 0, 16000, c.Audio.TargetSampleRate)

	c.Database.Driver = lo.Ternary(c.Database.Driver == "", "sqlite3", c.Database.Driver)
	if c.Database.DSN == "" && c.Database.Driver == "sqlite3" {
		c.Database.DSN = "data/meetings.db"
	}

	c.Cache.TTLSec = lo.Ternary(c.Cache.TTLSec == 0, 3600, c.Cache.TTLSec)
	c.Cache.Size = lo.Ternary(c.Cache.Size == 0, 128, c.Cache.Size)

	c.Storage.Bucket = lo.Ternary(c.Storage.Bucket == "", "meeting-audio", c.Storage.Bucket)
}

// applyEnvOverrides lets deployments override file values without editing YAML
func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("MOM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MOM_ENV"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("MOM_USERNAME"); v != "" {
		c.Auth.Username = v
	}
	if v := os.Getenv("MOM_PASSWORD"); v != "" {
		c.Auth.Password = v
	}
	if v := os.Getenv("MOM_AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
		if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
			c.Database.Driver = "postgres"
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Storage.Endpoint = v
		c.Storage.Enabled = true
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Storage.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Storage.SecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}
}

// Validate checks value ranges and enumerations
func (c *AppConfig) Validate() error {
	if err := envcfg.ValidatePort(c.Server.Port, "server"); err != nil {
		return err
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server max_upload_mb cannot be negative")
	}
	if strings.TrimSpace(c.Auth.Username) == "" || c.Auth.Password == "" {
		return fmt.Errorf("auth username and password are required")
	}
	if err := envcfg.ValidateURL(c.Transcription.Deepgram.BaseURL, "deepgram"); err != nil {
		return err
	}
	if err := envcfg.ValidateURL(c.Transcription.Deepgram.LiveURL, "deepgram live", "ws://", "wss://"); err != nil {
		return err
	}
	if err := envcfg.ValidateRetries(c.Transcription.MaxRetries, "transcription"); err != nil {
		return err
	}
	if err := envcfg.ValidateRetries(c.LLM.MaxRetries, "llm"); err != nil {
		return err
	}
	if err := envcfg.ValidateTemperature(c.LLM.Temperature, "llm"); err != nil {
		return err
	}
	if !lo.Contains([]string{"openai", "gemini"}, c.LLM.Provider) {
		return fmt.Errorf("llm provider must be openai or gemini, got '%s'", c.LLM.Provider)
	}
	if !lo.Contains([]string{"standard", "professional"}, c.LLM.PromptStyle) {
		return fmt.Errorf("llm prompt_style must be standard or professional, got '%s'", c.LLM.PromptStyle)
	}
	if !lo.Contains([]string{"sqlite3", "postgres"}, c.Database.Driver) {
		return fmt.Errorf("database driver must be sqlite3 or postgres, got '%s'", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required for postgres")
	}
	if c.Storage.Enabled && (c.Storage.Endpoint == "" || c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("storage endpoint, access_key and secret_key are required when storage is enabled")
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *AppConfig) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Address returns host:port for the HTTP listener
func (c *AppConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxUploadBytes returns the upload limit in bytes
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// TokenTTL returns the session token lifetime
func (c *AppConfig) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMin) * time.Minute
}

// CacheTTL returns the transcript cache lifetime
func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}
