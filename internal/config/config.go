package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderArk    = "ark"
)

// ErrMissingCredentials reports required credentials absent at startup.
var ErrMissingCredentials = errors.New("missing required credentials")

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Places PlacesConfig
	Search SearchConfig
	Log    LogConfig
}

// Load reads configuration from v. A nil v reads straight from the
// environment.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	setDefaults(v)

	server, err := loadServerConfig(v)
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig(v)
	if err != nil {
		return nil, err
	}

	places, err := loadPlacesConfig(v)
	if err != nil {
		return nil, err
	}

	search, err := loadSearchConfig(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Places: places,
		Search: search,
		Log: LogConfig{
			Level:  strings.ToLower(getString(v, "LOG_LEVEL")),
			Format: strings.ToLower(getString(v, "LOG_FORMAT")),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "1337")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LLM_PROVIDER", ProviderGemini)
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-001")
	v.SetDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3")
	v.SetDefault("ARK_REGION", "cn-beijing")
	v.SetDefault("PLACES_API_URL", "https://places.googleapis.com/v1/places:searchText")
	v.SetDefault("PLACES_TIMEOUT", "15s")
	v.SetDefault("SEARCH_WORKERS", 64)
	v.SetDefault("WS_QUEUE_SIZE", 16)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Validate reports every missing credential the server cannot start without.
func (c *Config) Validate() error {
	var missing []string

	switch c.AI.Provider {
	case ProviderGemini:
		if !c.AI.GeminiEnabled() {
			missing = append(missing, "GOOGLE_API_KEY")
		}
	case ProviderArk:
		if !c.AI.ArkEnabled() {
			missing = append(missing, "ARK_MODEL with ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
		}
	}

	if c.Places.BearerToken == "" {
		missing = append(missing, "GOOGLE_BEARER_TOKEN")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(v *viper.Viper) (ServerConfig, error) {
	port := getString(v, "PORT")

	var origins []string
	for _, origin := range strings.Split(getString(v, "CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":1337" 或 "127.0.0.1:1337"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if port == "" || strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider     string
	GoogleAPIKey string
	GeminiModel  string
	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string
	Temperature  *float64
	TopP         *float64
	MaxTokens    *int
}

// GeminiEnabled reports whether the Gemini provider has what it needs.
func (c AIConfig) GeminiEnabled() bool {
	return c.GoogleAPIKey != "" && c.GeminiModel != ""
}

// ArkEnabled 表示是否提供了必需的密钥。
func (c AIConfig) ArkEnabled() bool {
	return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
}

func loadAIConfig(v *viper.Viper) (AIConfig, error) {
	provider := strings.ToLower(getString(v, "LLM_PROVIDER"))
	if provider != ProviderGemini && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q", provider)
	}

	temperature, err := parseOptionalFloat(v, "LLM_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloat(v, "LLM_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalInt(v, "LLM_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:     provider,
		GoogleAPIKey: getString(v, "GOOGLE_API_KEY"),
		GeminiModel:  getString(v, "GEMINI_MODEL"),
		ArkAPIKey:    getString(v, "ARK_API_KEY"),
		ArkAccessKey: getString(v, "ARK_ACCESS_KEY"),
		ArkSecretKey: getString(v, "ARK_SECRET_KEY"),
		ArkModel:     getString(v, "ARK_MODEL"),
		ArkBaseURL:   getString(v, "ARK_BASE_URL"),
		ArkRegion:    getString(v, "ARK_REGION"),
		Temperature:  temperature,
		TopP:         topP,
		MaxTokens:    maxTokens,
	}, nil
}

// PlacesConfig describes the place search provider.
type PlacesConfig struct {
	URL         string
	BearerToken string
	UserProject string
	Timeout     time.Duration
}

func loadPlacesConfig(v *viper.Viper) (PlacesConfig, error) {
	raw := getString(v, "PLACES_TIMEOUT")
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return PlacesConfig{}, fmt.Errorf("invalid PLACES_TIMEOUT value %q: %w", raw, err)
	}
	if timeout <= 0 {
		return PlacesConfig{}, fmt.Errorf("invalid PLACES_TIMEOUT value %q: must be positive", raw)
	}

	return PlacesConfig{
		URL:         getString(v, "PLACES_API_URL"),
		BearerToken: getString(v, "GOOGLE_BEARER_TOKEN"),
		UserProject: getString(v, "PLACES_USER_PROJECT"),
		Timeout:     timeout,
	}, nil
}

// SearchConfig sizes the realtime search machinery.
type SearchConfig struct {
	Workers   int
	QueueSize int
}

func loadSearchConfig(v *viper.Viper) (SearchConfig, error) {
	workers, err := parsePositiveInt(v, "SEARCH_WORKERS")
	if err != nil {
		return SearchConfig{}, err
	}

	queue, err := parsePositiveInt(v, "WS_QUEUE_SIZE")
	if err != nil {
		return SearchConfig{}, err
	}

	return SearchConfig{Workers: workers, QueueSize: queue}, nil
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string
	Format string
}

func getString(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func parsePositiveInt(v *viper.Viper, key string) (int, error) {
	raw := getString(v, key)
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val < 1 {
		return 0, fmt.Errorf("invalid %s value %q: must be at least 1", key, raw)
	}
	return val, nil
}

func parseOptionalFloat(v *viper.Viper, key string) (*float64, error) {
	value := getString(v, key)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalInt(v *viper.Viper, key string) (*int, error) {
	value := getString(v, key)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
