package gemini

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

// Ensure interface compliance
var (
	_ tts.Synthesizer = (*Client)(nil)
	_ tts.VoiceLister = (*Client)(nil)
)

// voiceNames голоса Gemini‑TTS. Каждый голос многоязычный, язык задаётся в запросе.
var voiceNames = []string{
	"Aoede", "Kore", "Leda", "Zephyr", "Callirrhoe", "Autonoe",
	"Charon", "Fenrir", "Puck", "Orus", "Umbriel", "Iapetus",
}

// Client реализует синтез речи через Cloud Text-to-Speech: Gemini‑TTS.
type Client struct {
	http   *http.Client
	cfg    config.GeminiTTSConfig
	logger *zap.SugaredLogger
}

// New создаёт OAuth2 HTTP‑клиент только через ADC/metadata. API Key не используется.
func New(ctx context.Context, cfg config.GeminiTTSConfig, logger *zap.SugaredLogger) (*Client, error) {
	hc, err := google.DefaultClient(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, errors.New("gemini tts: ADC credentials not found. Set GOOGLE_APPLICATION_CREDENTIALS to a service account JSON or run in GCE/GKE with default credentials")
	}
	return &Client{http: hc, cfg: cfg, logger: logger}, nil
}

// requestPayload: структура, покрывающая input.prompt и voice.model_name.
type requestPayload struct {
	Input struct {
		Prompt string `json:"prompt,omitempty"`
		Text   string `json:"text,omitempty"`
	} `json:"input"`
	Voice struct {
		ModelName    string `json:"modelName,omitempty"`
		LanguageCode string `json:"languageCode,omitempty"`
		VoiceName    string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding,omitempty"`
		SpeakingRate  float64 `json:"speakingRate,omitempty"`
		Pitch         float64 `json:"pitch,omitempty"`
		VolumeGainDb  float64 `json:"volumeGainDb,omitempty"`
	} `json:"audioConfig"`
}

type jsonAudioResponse struct {
	AudioContent string `json:"audioContent"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ListVoices возвращает статический каталог: каждый голос в каждом из настроенных языков.
func (c *Client) ListVoices(context.Context) ([]tts.Voice, error) {
	out := make([]tts.Voice, 0, len(voiceNames)*len(c.cfg.Languages))
	for _, lang := range c.cfg.Languages {
		for _, name := range voiceNames {
			out = append(out, tts.Voice{ID: lang + "/" + name, Name: name, Lang: lang})
		}
	}
	return out, nil
}

// Synthesize выполняет запрос к Gemini‑TTS и возвращает MP3.
func (c *Client) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	var rp requestPayload
	rp.Input.Text = req.Text
	if p := strings.TrimSpace(c.cfg.Prompt); p != "" {
		rp.Input.Prompt = p
	}
	rp.Voice.ModelName = strings.TrimSpace(c.cfg.ModelName)
	rp.Voice.LanguageCode, rp.Voice.VoiceName = c.resolveVoice(req)
	rp.AudioConfig.AudioEncoding = "MP3"
	rp.AudioConfig.SpeakingRate = c.cfg.SpeakingRate
	rp.AudioConfig.Pitch = c.cfg.Pitch
	rp.AudioConfig.VolumeGainDb = c.cfg.VolumeGainDb

	body, err := json.Marshal(&rp)
	if err != nil {
		return tts.Audio{}, err
	}

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return tts.Audio{}, err
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(hr)
	if err != nil {
		return tts.Audio{}, &tts.Error{Code: tts.CodeNetwork, Err: err}
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Infow("Gemini TTS request completed", "status", resp.StatusCode, "took", time.Since(started).String())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return tts.Audio{}, classify(resp.StatusCode, b)
	}

	var jr jsonAudioResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, 5<<20)) // до 5 МБ JSON
	if err := dec.Decode(&jr); err != nil {
		return tts.Audio{}, fmt.Errorf("gemini tts: decode json response: %w", err)
	}
	if strings.TrimSpace(jr.AudioContent) == "" {
		return tts.Audio{}, errors.New("gemini tts: empty audioContent in response")
	}
	data, err := base64.StdEncoding.DecodeString(jr.AudioContent)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("gemini tts: base64 decode: %w", err)
	}
	return tts.Audio{Format: "mp3", Data: data}, nil
}

// resolveVoice разбирает ID вида "te-IN/Kore". Без голоса: первый язык из каталога.
func (c *Client) resolveVoice(req tts.Request) (lang, name string) {
	lang = req.Lang
	if lang == "" && len(c.cfg.Languages) > 0 {
		lang = c.cfg.Languages[0]
	}
	if req.VoiceID == "" {
		return lang, ""
	}
	if l, n, ok := strings.Cut(req.VoiceID, "/"); ok {
		if req.Lang == "" {
			lang = l
		}
		return lang, n
	}
	return lang, req.VoiceID
}

func classify(statusCode int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	msg := strings.TrimSpace(er.Error.Message)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	err := fmt.Errorf("gemini tts error: status=%d, body=%s", statusCode, msg)

	lower := strings.ToLower(msg)
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &tts.Error{Code: tts.CodeNotAllowed, Err: err}
	case statusCode == http.StatusTooManyRequests:
		return &tts.Error{Code: tts.CodeServiceNotAllowed, Err: err}
	case statusCode == http.StatusBadRequest && strings.Contains(lower, "language"):
		return &tts.Error{Code: tts.CodeLanguageUnavailable, Err: err}
	case statusCode == http.StatusBadRequest && strings.Contains(lower, "voice"):
		return &tts.Error{Code: tts.CodeVoiceUnavailable, Err: err}
	case statusCode >= 500:
		return &tts.Error{Code: tts.CodeNetwork, Err: err}
	}
	return &tts.Error{Code: tts.CodeSynthesisFailed, Err: err}
}
