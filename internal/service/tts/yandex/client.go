package yandex

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const endpoint = "https://tts.api.cloud.yandex.net/speech/v1/tts:synthesize"

// Ensure interface compliance
var (
	_ tts.Synthesizer = (*Client)(nil)
	_ tts.VoiceLister = (*Client)(nil)
)

// catalogue голоса SpeechKit v1. Телугу SpeechKit не поддерживает.
var catalogue = []tts.Voice{
	{ID: "alena", Name: "Alena", Lang: "ru-RU"},
	{ID: "filipp", Name: "Filipp", Lang: "ru-RU"},
	{ID: "ermil", Name: "Ermil", Lang: "ru-RU"},
	{ID: "jane", Name: "Jane", Lang: "ru-RU"},
	{ID: "omazh", Name: "Omazh", Lang: "ru-RU"},
	{ID: "zahar", Name: "Zahar", Lang: "ru-RU"},
	{ID: "john", Name: "John", Lang: "en-US"},
	{ID: "lea", Name: "Lea", Lang: "de-DE"},
	{ID: "amira", Name: "Amira", Lang: "kk-KK"},
	{ID: "nigora", Name: "Nigora", Lang: "uz-UZ"},
}

// Client реализует синтез речи через Yandex SpeechKit.
type Client struct {
	http     *http.Client
	endpoint string
	cfg      config.YandexTTSConfig
}

func New(cfg config.YandexTTSConfig) *Client {
	return &Client{http: http.DefaultClient, endpoint: endpoint, cfg: cfg}
}

func (c *Client) ListVoices(context.Context) ([]tts.Voice, error) {
	out := make([]tts.Voice, len(catalogue))
	copy(out, catalogue)
	return out, nil
}

// Synthesize выполняет запрос к Yandex TTS и возвращает MP3.
func (c *Client) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return tts.Audio{}, &tts.Error{Code: tts.CodeNotAllowed, Err: errors.New("yandex tts: empty API key")}
	}
	voice, lang, err := resolve(req)
	if err != nil {
		return tts.Audio{}, err
	}

	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("lang", lang)
	if voice != "" {
		form.Set("voice", voice)
	}
	// Только MP3: lpcm и oggopus плеер напрямую не проигрывает
	form.Set("format", "mp3")
	form.Set("speed", c.cfg.Speed)
	form.Set("emotion", strings.ToLower(c.cfg.Emotion))

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return tts.Audio{}, err
	}
	hr.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	hr.Header.Set("Authorization", "Api-Key "+c.cfg.APIKey)

	resp, err := c.http.Do(hr)
	if err != nil {
		return tts.Audio{}, &tts.Error{Code: tts.CodeNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		err := fmt.Errorf("yandex tts error: status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b))
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return tts.Audio{}, &tts.Error{Code: tts.CodeNotAllowed, Err: err}
		case resp.StatusCode == http.StatusTooManyRequests:
			return tts.Audio{}, &tts.Error{Code: tts.CodeServiceNotAllowed, Err: err}
		case resp.StatusCode >= 500:
			return tts.Audio{}, &tts.Error{Code: tts.CodeNetwork, Err: err}
		}
		return tts.Audio{}, &tts.Error{Code: tts.CodeSynthesisFailed, Err: err}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return tts.Audio{}, &tts.Error{Code: tts.CodeNetwork, Err: err}
	}
	return tts.Audio{Format: "mp3", Data: data}, nil
}

// resolve проверяет голос и язык заявки по каталогу.
func resolve(req tts.Request) (voice, lang string, err error) {
	if req.VoiceID != "" {
		for _, v := range catalogue {
			if v.ID == req.VoiceID {
				return v.ID, v.Lang, nil
			}
		}
		return "", "", tts.Errorf(tts.CodeVoiceUnavailable, "yandex tts: unknown voice %q", req.VoiceID)
	}
	if req.Lang == "" {
		return "", "ru-RU", nil
	}
	for _, v := range catalogue {
		if strings.EqualFold(v.Lang, req.Lang) {
			return "", v.Lang, nil
		}
	}
	return "", "", tts.Errorf(tts.CodeLanguageUnavailable, "yandex tts: language %q is not supported", req.Lang)
}
