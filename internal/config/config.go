package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"`     // Режим дебага
	BindAddr  string `env:"HTTP_BIND_ADDR"` // Адрес веб-интерфейса, напр. 127.0.0.1:8080

	// Общий переключатель сервиса TTS: google|gemini|yandex|espeak
	TTSService string `env:"TTS_SERVICE"`

	// Язык интерфейса озвучивания
	TargetLanguage string        `env:"TARGET_LANGUAGE"` // Префикс языка приоритетных голосов, напр. te
	DefaultLocale  string        `env:"DEFAULT_LOCALE"`  // Язык заявки при автоматическом выборе голоса, напр. te-IN
	StatusTTL      time.Duration `env:"STATUS_TTL"`      // Через сколько гаснет не-ошибочный статус

	// Движок
	VoicesRefreshInterval time.Duration `env:"VOICES_REFRESH_INTERVAL"` // Период перечитывания каталога голосов, 0: только при старте
	AudioCacheTTL         time.Duration `env:"AUDIO_CACHE_TTL"`         // Кэш синтезированного аудио, 0: выключен
	MaxTextLength         int           `env:"MAX_TEXT_LENGTH"`         // Максимум символов в одной заявке
	PlayerVolumeDB        float64       `env:"PLAYER_VOLUME_DB"`        // Громкость плеера в dB, 0: без изменений

	// WebSocket
	WSMessagesPerSecond float64 `env:"WS_MESSAGES_PER_SECOND"` // Лимит входящих сообщений на одно соединение
	WSBurst             int     `env:"WS_BURST"`               // Допустимый всплеск входящих сообщений

	GoogleTTS GoogleTTSConfig
	GeminiTTS GeminiTTSConfig
	YandexTTS YandexTTSConfig
	Espeak    EspeakConfig
}

// GoogleTTSConfig конфигурация для синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	// Путь к файлу ключа сервисного аккаунта. Фактически читается из ENV GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsPath  string  `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Language         string  `env:"GOOGLE_TTS_LANGUAGE"`
	Voice            string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate     float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch            float64 `env:"GOOGLE_TTS_PITCH"`
	VolumeGainDb     float64 `env:"GOOGLE_TTS_VOLUME_DB"`
	EffectsProfileID string  `env:"GOOGLE_TTS_EFFECTS_PROFILE_ID"`
	// Тип входа: text|ssml. Пусто: auto (по наличию тега <speak> в тексте).
	InputType string `env:"GOOGLE_TTS_INPUT_TYPE"`
}

// GeminiTTSConfig конфигурация Gemini‑TTS (Cloud Text-to-Speech v1beta1).
type GeminiTTSConfig struct {
	Endpoint     string   `env:"GEMINI_TTS_ENDPOINT"`
	ModelName    string   `env:"GEMINI_TTS_MODEL"`
	Languages    []string `env:"GEMINI_TTS_LANGUAGES" envSeparator:";"` // Языки, в которых показываем голоса Gemini
	Prompt       string   `env:"GEMINI_TTS_PROMPT"`                     // Стилевой промпт, опционально
	SpeakingRate float64  `env:"GEMINI_TTS_SPEAKING_RATE"`
	Pitch        float64  `env:"GEMINI_TTS_PITCH"`
	VolumeGainDb float64  `env:"GEMINI_TTS_VOLUME_DB"`
}

// YandexTTSConfig конфигурация для синтеза речи через Yandex SpeechKit.
type YandexTTSConfig struct {
	APIKey  string `env:"YC_TTS_API_KEY"` // Ключ берём из .env/ENV. Если пуст: при использовании будет ошибка
	Speed   string `env:"YC_TTS_SPEED"`   // Скорость синтеза (1.0 по умолчанию в API)
	Emotion string `env:"YC_TTS_EMOTION"` // neutral|good|evil
}

// EspeakConfig конфигурация локального espeak-ng.
type EspeakConfig struct {
	Binary    string `env:"ESPEAK_BINARY"`    // Пусто: ищем espeak-ng, затем espeak в PATH
	Amplitude int    `env:"ESPEAK_AMPLITUDE"` // 0-200
	Speed     int    `env:"ESPEAK_SPEED"`     // слов в минуту
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:             false,
		BindAddr:              "127.0.0.1:8080",
		TTSService:            "google",
		TargetLanguage:        "te",
		DefaultLocale:         "te-IN",
		StatusTTL:             5 * time.Second,
		VoicesRefreshInterval: 10 * time.Minute,
		AudioCacheTTL:         10 * time.Minute,
		MaxTextLength:         5000,
		PlayerVolumeDB:        0,
		WSMessagesPerSecond:   5,
		WSBurst:               10,
		GoogleTTS: GoogleTTSConfig{
			CredentialsPath:  "service-account.json",
			Language:         "te-IN",
			Voice:            "te-IN-Standard-A",
			SpeakingRate:     1.0,
			Pitch:            0.0,
			VolumeGainDb:     0.0,
			EffectsProfileID: "",
			InputType:        "", // auto
		},
		GeminiTTS: GeminiTTSConfig{
			Endpoint:     "https://texttospeech.googleapis.com/v1beta1/text:synthesize",
			ModelName:    "gemini-2.5-flash-tts",
			Languages:    []string{"te-IN", "en-US"},
			SpeakingRate: 1.0,
		},
		YandexTTS: YandexTTSConfig{
			Speed:   "1.0",
			Emotion: "neutral",
		},
		Espeak: EspeakConfig{
			Amplitude: 100,
			Speed:     160,
		},
	}
}

// NewConfig загружает конфигурацию приложения из os.Args.
// Некорректная конфигурация: паника, продолжать работу нет смысла.
func NewConfig() *Config {
	cfg, err := Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load собирает конфигурацию: дефолты → .env → окружение → флаги fs.
// Флаги регистрируются в fs, поэтому вызывающий может добавить свои до вызова.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.StringVar(&cfg.BindAddr, "http-bind-addr", cfg.BindAddr, "адрес веб-интерфейса (напр. 127.0.0.1:8080)")
	fs.StringVar(&cfg.TTSService, "tts-service", cfg.TTSService, "выбор сервиса TTS: google|gemini|yandex|espeak")
	fs.StringVar(&cfg.TargetLanguage, "target-language", cfg.TargetLanguage, "префикс языка приоритетных голосов (напр. te)")
	fs.StringVar(&cfg.DefaultLocale, "default-locale", cfg.DefaultLocale, "язык при автоматическом выборе голоса (напр. te-IN)")
	fs.DurationVar(&cfg.StatusTTL, "status-ttl", cfg.StatusTTL, "время показа статуса, напр. 5s")
	fs.DurationVar(&cfg.VoicesRefreshInterval, "voices-refresh-interval", cfg.VoicesRefreshInterval, "период обновления каталога голосов, 0: только при старте")
	fs.DurationVar(&cfg.AudioCacheTTL, "audio-cache-ttl", cfg.AudioCacheTTL, "время жизни кэша синтезированного аудио, 0: выключен")
	fs.IntVar(&cfg.MaxTextLength, "max-text-length", cfg.MaxTextLength, "максимум символов в одной заявке")
	fs.Float64Var(&cfg.PlayerVolumeDB, "player-volume-db", cfg.PlayerVolumeDB, "громкость плеера в dB (отрицательные: тише)")
	fs.Float64Var(&cfg.WSMessagesPerSecond, "ws-messages-per-second", cfg.WSMessagesPerSecond, "лимит входящих сообщений WebSocket на соединение")
	fs.IntVar(&cfg.WSBurst, "ws-burst", cfg.WSBurst, "допустимый всплеск входящих сообщений WebSocket")
	// Параметры Google TTS
	fs.StringVar(&cfg.GoogleTTS.CredentialsPath, "google-tts-credentials", cfg.GoogleTTS.CredentialsPath, "путь к service-account.json (также читается из ENV GOOGLE_APPLICATION_CREDENTIALS)")
	fs.StringVar(&cfg.GoogleTTS.Language, "google-tts-language", cfg.GoogleTTS.Language, "язык синтеза, если он не задан в заявке")
	fs.StringVar(&cfg.GoogleTTS.Voice, "google-tts-voice", cfg.GoogleTTS.Voice, "голос, если ни голос, ни язык не заданы в заявке")
	fs.Float64Var(&cfg.GoogleTTS.SpeakingRate, "google-tts-speaking-rate", cfg.GoogleTTS.SpeakingRate, "скорость речи (1.0 по умолчанию)")
	fs.Float64Var(&cfg.GoogleTTS.Pitch, "google-tts-pitch", cfg.GoogleTTS.Pitch, "тон (полутоны), может быть отрицательным")
	fs.Float64Var(&cfg.GoogleTTS.VolumeGainDb, "google-tts-volume-db", cfg.GoogleTTS.VolumeGainDb, "усиление громкости (дБ), от -96.0 до +16.0")
	fs.StringVar(&cfg.GoogleTTS.EffectsProfileID, "google-tts-effects-profile-id", cfg.GoogleTTS.EffectsProfileID, "EffectsProfileId, напр. headphone-class-device")
	fs.StringVar(&cfg.GoogleTTS.InputType, "google-tts-input-type", cfg.GoogleTTS.InputType, "тип входа: text|ssml; пусто = авто по наличию <speak>")
	// Параметры Gemini TTS
	fs.StringVar(&cfg.GeminiTTS.ModelName, "gemini-tts-model", cfg.GeminiTTS.ModelName, "модель Gemini‑TTS")
	geminiLanguages := strings.Join(cfg.GeminiTTS.Languages, ";")
	fs.StringVar(&geminiLanguages, "gemini-tts-languages", geminiLanguages, "языки голосов Gemini, разделённые ';'")
	fs.StringVar(&cfg.GeminiTTS.Prompt, "gemini-tts-prompt", cfg.GeminiTTS.Prompt, "стилевой промпт Gemini‑TTS")
	// Параметры Yandex TTS
	fs.StringVar(&cfg.YandexTTS.APIKey, "yc-tts-api-key", cfg.YandexTTS.APIKey, "API ключ Yandex SpeechKit TTS (перекрывает ENV)")
	fs.StringVar(&cfg.YandexTTS.Speed, "yc-tts-speed", cfg.YandexTTS.Speed, "скорость речи (1.0 по умолчанию)")
	fs.StringVar(&cfg.YandexTTS.Emotion, "yc-tts-emotion", cfg.YandexTTS.Emotion, "эмоциональная окраска (neutral|good|evil)")
	// Параметры espeak
	fs.StringVar(&cfg.Espeak.Binary, "espeak-binary", cfg.Espeak.Binary, "путь к espeak-ng/espeak; пусто: поиск в PATH")
	fs.IntVar(&cfg.Espeak.Amplitude, "espeak-amplitude", cfg.Espeak.Amplitude, "громкость espeak 0-200")
	fs.IntVar(&cfg.Espeak.Speed, "espeak-speed", cfg.Espeak.Speed, "скорость espeak, слов в минуту")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.GeminiTTS.Languages = parseListFlag(geminiLanguages, cfg.GeminiTTS.Languages)
	cfg.TTSService = normalizeService(cfg.TTSService)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// учётные данные проверяет backend.Open: без них страница всё равно открывается
	switch c.TTSService {
	case "google", "gemini", "yandex", "espeak":
	default:
		return fmt.Errorf("config: unknown tts service %q", c.TTSService)
	}
	if strings.TrimSpace(c.TargetLanguage) == "" {
		return errors.New("config: empty target language")
	}
	if c.StatusTTL <= 0 {
		return fmt.Errorf("config: status ttl must be positive, got %s", c.StatusTTL)
	}
	return nil
}

// normalizeService приводит имя сервиса и его синонимы к каноническому виду.
func normalizeService(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "google-tts":
		return "google"
	case "google-gemini", "gemini-tts":
		return "gemini"
	case "yc", "speechkit":
		return "yandex"
	case "espeak-ng":
		return "espeak"
	default:
		return s
	}
}

// parseListFlag разбирает значение флага со списком, разделённым ';'
func parseListFlag(v string, def []string) []string {
	// Пустая строка → дефолт
	if v == "" {
		return def
	}
	parts := strings.Split(v, ";")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return def
	}
	return cleaned
}
