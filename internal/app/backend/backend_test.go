package backend

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts/espeak"
	"TeluguTTS/internal/service/tts/yandex"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpenLocalBackends(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	cfg := config.Defaults()

	cfg.TTSService = "espeak"
	b, err := Open(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &espeak.Client{}, b.Synth)
	assert.Same(t, b.Synth, b.Lister)
	assert.NoError(t, b.Close())

	cfg.TTSService = "yandex"
	cfg.YandexTTS.APIKey = "test-key"
	b, err = Open(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &yandex.Client{}, b.Lister)
}

func TestOpenUnknown(t *testing.T) {
	cfg := config.Defaults()
	cfg.TTSService = "festival"

	_, err := Open(context.Background(), cfg, zaptest.NewLogger(t).Sugar())
	assert.ErrorContains(t, err, "unknown tts service")
}

func TestOpenMissingCredentials(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", filepath.Join(t.TempDir(), "missing.json"))

	for _, service := range []string{"google", "gemini"} {
		cfg := config.Defaults()
		cfg.TTSService = service
		_, err := Open(context.Background(), cfg, logger)
		assert.ErrorContains(t, err, "credentials file not found", service)
	}

	cfg := config.Defaults()
	cfg.TTSService = "yandex"
	cfg.YandexTTS.APIKey = ""
	_, err := Open(context.Background(), cfg, logger)
	assert.ErrorContains(t, err, "empty API key")
}

func TestEngineConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.VoicesRefreshInterval = time.Minute
	cfg.AudioCacheTTL = 2 * time.Minute
	cfg.MaxTextLength = 42

	ec := EngineConfig(cfg)
	assert.Equal(t, time.Minute, ec.RefreshInterval)
	assert.Equal(t, 2*time.Minute, ec.CacheTTL)
	assert.Equal(t, 42, ec.MaxTextLength)
}
