package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig marks missing or malformed configuration. It is fatal.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	ProviderKakao = "kakao"
	ProviderNaver = "naver"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	APIKey string
}

type KakaoConfig struct {
	APIKey      string
	BaseURL     string
	MinInterval time.Duration
}

type NaverConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	MinInterval  time.Duration
	Keywords     []string
}

func (c NaverConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type ProvidersConfig struct {
	Timeout       time.Duration
	VerifyOnStart bool
	Kakao         KakaoConfig
	Naver         NaverConfig
}

type ContactConfig struct {
	Provider         string
	ProbeKeyword     string
	NearbyRadius     int
	NearbySize       int
	FallbackKeywords []string
	BusinessRegions  []string
}

type QueueConfig struct {
	URL   string
	Queue string
}

type ExportConfig struct {
	PDFFontPath string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Providers   ProvidersConfig
	Contact     ContactConfig
	Queue       QueueConfig
	Export      ExportConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			APIKey: strings.TrimSpace(v.GetString("API_KEY")),
		},
		Providers: ProvidersConfig{
			Timeout:       v.GetDuration("PROVIDER_TIMEOUT"),
			VerifyOnStart: v.GetBool("PROVIDER_VERIFY_ON_START"),
			Kakao: KakaoConfig{
				APIKey:      strings.TrimSpace(v.GetString("KAKAO_API_KEY")),
				BaseURL:     v.GetString("KAKAO_BASE_URL"),
				MinInterval: v.GetDuration("KAKAO_MIN_INTERVAL"),
			},
			Naver: NaverConfig{
				ClientID:     strings.TrimSpace(v.GetString("NAVER_CLIENT_ID")),
				ClientSecret: strings.TrimSpace(v.GetString("NAVER_CLIENT_SECRET")),
				BaseURL:      v.GetString("NAVER_BASE_URL"),
				MinInterval:  v.GetDuration("NAVER_MIN_INTERVAL"),
				Keywords:     parseList(v.GetString("NAVER_KEYWORDS")),
			},
		},
		Contact: ContactConfig{
			Provider:         strings.ToLower(strings.TrimSpace(v.GetString("CONTACT_PROVIDER"))),
			ProbeKeyword:     strings.TrimSpace(v.GetString("CONTACT_PROBE_KEYWORD")),
			NearbyRadius:     v.GetInt("CONTACT_NEARBY_RADIUS"),
			NearbySize:       v.GetInt("CONTACT_NEARBY_SIZE"),
			FallbackKeywords: parseList(v.GetString("CONTACT_FALLBACK_KEYWORDS")),
			BusinessRegions:  parseList(v.GetString("BUSINESS_REGIONS")),
		},
		Queue: QueueConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Export: ExportConfig{
			PDFFontPath: v.GetString("PDF_FONT_PATH"),
		},
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Providers.Timeout <= 0 {
		cfg.Providers.Timeout = 10 * time.Second
	}
	if cfg.Providers.Kakao.BaseURL == "" {
		cfg.Providers.Kakao.BaseURL = "https://dapi.kakao.com"
	}
	if cfg.Providers.Kakao.MinInterval <= 0 {
		cfg.Providers.Kakao.MinInterval = 100 * time.Millisecond
	}
	if cfg.Providers.Naver.BaseURL == "" {
		cfg.Providers.Naver.BaseURL = "https://openapi.naver.com"
	}
	if cfg.Providers.Naver.MinInterval <= 0 {
		cfg.Providers.Naver.MinInterval = 150 * time.Millisecond
	}
	if len(cfg.Providers.Naver.Keywords) == 0 {
		cfg.Providers.Naver.Keywords = []string{"맛집", "음식점", "카페", "병원", "편의점", "마트", "상가"}
	}
	if cfg.Contact.Provider == "" {
		cfg.Contact.Provider = ProviderKakao
	}
	if cfg.Contact.ProbeKeyword == "" {
		cfg.Contact.ProbeKeyword = "음식점"
	}
	if cfg.Contact.NearbyRadius <= 0 {
		cfg.Contact.NearbyRadius = 500
	}
	if cfg.Contact.NearbySize <= 0 {
		cfg.Contact.NearbySize = 15
	}
	if len(cfg.Contact.FallbackKeywords) == 0 {
		cfg.Contact.FallbackKeywords = []string{"음식점", "카페", "병원", "편의점", "마트"}
	}
	if len(cfg.Contact.BusinessRegions) == 0 {
		cfg.Contact.BusinessRegions = []string{"부산", "울산", "경남"}
	}
	if cfg.Queue.Queue == "" {
		cfg.Queue.Queue = "contact_mapping"
	}
}

func validate(cfg *Config) error {
	if cfg.Auth.APIKey == "" {
		return fmt.Errorf("%w: API_KEY is required", ErrInvalidConfig)
	}
	if cfg.Providers.Kakao.APIKey == "" {
		return fmt.Errorf("%w: KAKAO_API_KEY is required", ErrInvalidConfig)
	}
	naver := cfg.Providers.Naver
	if (naver.ClientID == "") != (naver.ClientSecret == "") {
		return fmt.Errorf("%w: NAVER_CLIENT_ID and NAVER_CLIENT_SECRET must be set together", ErrInvalidConfig)
	}
	switch cfg.Contact.Provider {
	case ProviderKakao:
	case ProviderNaver:
		if !naver.Enabled() {
			return fmt.Errorf("%w: CONTACT_PROVIDER=naver requires NAVER_CLIENT_ID and NAVER_CLIENT_SECRET", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown CONTACT_PROVIDER %q", ErrInvalidConfig, cfg.Contact.Provider)
	}
	if cfg.Contact.NearbySize > 15 {
		return fmt.Errorf("%w: CONTACT_NEARBY_SIZE must not exceed 15", ErrInvalidConfig)
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
