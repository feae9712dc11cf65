package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	for key, value := range values {
		v.Set(key, value)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"API_KEY":       "secret",
		"KAKAO_API_KEY": "kakao",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, 100*time.Millisecond, cfg.Providers.Kakao.MinInterval)
	assert.Equal(t, 150*time.Millisecond, cfg.Providers.Naver.MinInterval)
	assert.Equal(t, ProviderKakao, cfg.Contact.Provider)
	assert.Equal(t, "음식점", cfg.Contact.ProbeKeyword)
	assert.Equal(t, 500, cfg.Contact.NearbyRadius)
	assert.Equal(t, 15, cfg.Contact.NearbySize)
	assert.Equal(t, []string{"음식점", "카페", "병원", "편의점", "마트"}, cfg.Contact.FallbackKeywords)
	assert.Equal(t, []string{"부산", "울산", "경남"}, cfg.Contact.BusinessRegions)
	assert.False(t, cfg.Providers.Naver.Enabled())
}

func TestFromViperKeywordOverride(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"API_KEY":                   "secret",
		"KAKAO_API_KEY":             "kakao",
		"CONTACT_FALLBACK_KEYWORDS": " 카페 , ,병원",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"카페", "병원"}, cfg.Contact.FallbackKeywords)
}

func TestFromViperValidation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{
			name:   "missing api key",
			values: map[string]any{"KAKAO_API_KEY": "kakao"},
		},
		{
			name:   "missing kakao key",
			values: map[string]any{"API_KEY": "secret"},
		},
		{
			name: "naver id without secret",
			values: map[string]any{
				"API_KEY":         "secret",
				"KAKAO_API_KEY":   "kakao",
				"NAVER_CLIENT_ID": "id",
			},
		},
		{
			name: "naver provider without credentials",
			values: map[string]any{
				"API_KEY":          "secret",
				"KAKAO_API_KEY":    "kakao",
				"CONTACT_PROVIDER": "naver",
			},
		},
		{
			name: "unknown provider",
			values: map[string]any{
				"API_KEY":          "secret",
				"KAKAO_API_KEY":    "kakao",
				"CONTACT_PROVIDER": "google",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
