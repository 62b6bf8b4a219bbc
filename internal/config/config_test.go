package config

import (
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func TestLoadDefaultsEspeak(t *testing.T) {
	t.Setenv("TTS_SERVICE", "espeak")

	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "espeak", cfg.TTSService)
	assert.Equal(t, "te", cfg.TargetLanguage)
	assert.Equal(t, "te-IN", cfg.DefaultLocale)
	assert.Equal(t, 5*time.Second, cfg.StatusTTL)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TTS_SERVICE", "espeak")
	t.Setenv("STATUS_TTL", "7s")
	t.Setenv("TARGET_LANGUAGE", "hi")

	cfg, err := Load(newFlagSet(), []string{"-target-language", "ta", "-default-locale", "ta-IN"})
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.StatusTTL)
	assert.Equal(t, "ta", cfg.TargetLanguage)
	assert.Equal(t, "ta-IN", cfg.DefaultLocale)
}

func TestLoadGeminiLanguagesList(t *testing.T) {
	cfg, err := Load(newFlagSet(), []string{"-tts-service", "Gemini", "-gemini-tts-languages", " te-IN ; ;hi-IN"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.TTSService)
	assert.Equal(t, []string{"te-IN", "hi-IN"}, cfg.GeminiTTS.Languages)
}

func TestLoadWithoutCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("YC_TTS_API_KEY", "")

	for _, service := range []string{"google", "gemini", "yandex"} {
		cfg, err := Load(newFlagSet(), []string{"-tts-service", service})
		require.NoError(t, err, service)
		assert.Equal(t, service, cfg.TTSService)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("unknown service", func(t *testing.T) {
		_, err := Load(newFlagSet(), []string{"-tts-service", "festival"})
		assert.ErrorContains(t, err, "unknown tts service")
	})
	t.Run("non-positive status ttl", func(t *testing.T) {
		_, err := Load(newFlagSet(), []string{"-tts-service", "espeak", "-status-ttl", "0s"})
		assert.ErrorContains(t, err, "status ttl")
	})
}

func TestParseListFlag(t *testing.T) {
	def := []string{"x"}
	assert.Equal(t, def, parseListFlag("", def))
	assert.Equal(t, def, parseListFlag(" ; ", def))
	assert.Equal(t, []string{"a", "b"}, parseListFlag("a; b", def))
}

func TestNormalizeService(t *testing.T) {
	for in, want := range map[string]string{
		"":              "google",
		" Google ":      "google",
		"google-gemini": "gemini",
		"SpeechKit":     "yandex",
		"yc":            "yandex",
		"espeak-ng":     "espeak",
		"festival":      "festival",
	} {
		assert.Equal(t, want, normalizeService(in), in)
	}
}
