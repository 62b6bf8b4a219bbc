// Package backend выбирает бэкенд синтеза по конфигу и собирает движок.
package backend

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"TeluguTTS/internal/service/tts/espeak"
	"TeluguTTS/internal/service/tts/gemini"
	"TeluguTTS/internal/service/tts/google"
	"TeluguTTS/internal/service/tts/player"
	"TeluguTTS/internal/service/tts/yandex"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Backend синтез и каталог голосов одного сервиса.
type Backend struct {
	Name   string
	Synth  tts.Synthesizer
	Lister tts.VoiceLister
	close  func() error
}

// Close освобождает ресурсы клиента (gRPC-соединение у google).
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open создаёт клиента для cfg.TTSService. Ошибка здесь не фатальна для веб-студии:
// она работает без бэкенда и показывает, что синтез недоступен.
func Open(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*Backend, error) {
	if err := checkCredentials(cfg); err != nil {
		return nil, err
	}
	b := &Backend{Name: cfg.TTSService}
	switch cfg.TTSService {
	case "google":
		c, err := google.New(ctx, cfg.GoogleTTS, logger)
		if err != nil {
			return nil, fmt.Errorf("google tts client: %w", err)
		}
		b.Synth, b.Lister, b.close = c, c, c.Close
	case "gemini":
		c, err := gemini.New(ctx, cfg.GeminiTTS, logger)
		if err != nil {
			return nil, fmt.Errorf("gemini tts client: %w", err)
		}
		b.Synth, b.Lister = c, c
	case "yandex":
		c := yandex.New(cfg.YandexTTS)
		b.Synth, b.Lister = c, c
	case "espeak":
		c := espeak.New(cfg.Espeak)
		b.Synth, b.Lister = c, c
	default:
		return nil, fmt.Errorf("unknown tts service %q", cfg.TTSService)
	}
	logger.Infow("TTS selected", "service", b.Name)
	return b, nil
}

func checkCredentials(cfg *config.Config) error {
	switch cfg.TTSService {
	case "google", "gemini":
		// Если ENV пуст, но в конфиге указан путь: устанавливаем ENV для SDK.
		cred := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if cred == "" {
			cred = strings.TrimSpace(cfg.GoogleTTS.CredentialsPath)
			if cred == "" {
				return errors.New("google tts: GOOGLE_APPLICATION_CREDENTIALS is not set; use ENV or -google-tts-credentials")
			}
			_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cred)
		}
		if _, err := os.Stat(cred); err != nil {
			return fmt.Errorf("google tts: credentials file not found: %s", cred)
		}
	case "yandex":
		if strings.TrimSpace(cfg.YandexTTS.APIKey) == "" {
			return errors.New("yandex tts: empty API key (set YC_TTS_API_KEY in .env/ENV or pass -yc-tts-api-key)")
		}
	}
	return nil
}

// NewEngine движок поверх бэкенда и системного плеера с громкостью из конфига.
func NewEngine(b *Backend, cfg *config.Config, logger *zap.SugaredLogger) *tts.Engine {
	var p tts.Player = player.New()
	if cfg.PlayerVolumeDB != 0 {
		p = player.NewWithVolume(cfg.PlayerVolumeDB)
	}
	return tts.NewEngine(b.Synth, b.Lister, p, EngineConfig(cfg), logger)
}

// EngineConfig параметры движка из общего конфига.
func EngineConfig(cfg *config.Config) tts.EngineConfig {
	return tts.EngineConfig{
		RefreshInterval: cfg.VoicesRefreshInterval,
		CacheTTL:        cfg.AudioCacheTTL,
		MaxTextLength:   cfg.MaxTextLength,
	}
}
