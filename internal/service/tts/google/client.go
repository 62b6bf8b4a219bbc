package google

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"context"
	"strings"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	gax "github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Ensure interface compliance
var (
	_ tts.Synthesizer = (*Client)(nil)
	_ tts.VoiceLister = (*Client)(nil)
)

// api минимальная часть SDK-клиента, которой мы пользуемся.
type api interface {
	ListVoices(ctx context.Context, req *ttspb.ListVoicesRequest, opts ...gax.CallOption) (*ttspb.ListVoicesResponse, error)
	SynthesizeSpeech(ctx context.Context, req *ttspb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*ttspb.SynthesizeSpeechResponse, error)
}

// Client реализует синтез речи и каталог голосов через Google Cloud Text-to-Speech.
type Client struct {
	api    api
	cfg    config.GoogleTTSConfig
	logger *zap.SugaredLogger
	close  func() error
}

// New создаёт клиента SDK. Учётные данные берутся из GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg config.GoogleTTSConfig, logger *zap.SugaredLogger) (*Client, error) {
	c, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Client{api: c, cfg: cfg, logger: logger, close: c.Close}, nil
}

func (c *Client) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// ListVoices возвращает по одному голосу на каждую пару (голос, язык).
// Ключ вида "язык/имя": у многоязычного голоса несколько записей.
func (c *Client) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	resp, err := c.api.ListVoices(ctx, &ttspb.ListVoicesRequest{})
	if err != nil {
		return nil, classify(err)
	}
	out := make([]tts.Voice, 0, len(resp.GetVoices()))
	for _, v := range resp.GetVoices() {
		for _, lang := range v.GetLanguageCodes() {
			out = append(out, tts.Voice{ID: lang + "/" + v.GetName(), Name: v.GetName(), Lang: lang})
		}
	}
	return out, nil
}

// Synthesize выполняет запрос к Google TTS и возвращает MP3.
func (c *Client) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	// Определяем тип входа (text|ssml)
	var input *ttspb.SynthesisInput
	it := strings.ToLower(strings.TrimSpace(c.cfg.InputType))
	if it == "ssml" || (it == "" && strings.HasPrefix(strings.TrimSpace(req.Text), "<speak>")) {
		input = &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Ssml{Ssml: req.Text}}
	} else {
		input = &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: req.Text}}
	}

	// Голос из заявки важнее языка; язык обязателен для API, поэтому подставляем дефолт из конфига
	lang, name := req.Lang, req.VoiceID
	if l, n, ok := strings.Cut(req.VoiceID, "/"); ok {
		name = n
		if lang == "" {
			lang = l
		}
	}
	if lang == "" {
		lang = c.cfg.Language
		if name == "" {
			name = c.cfg.Voice
		}
	}
	voice := &ttspb.VoiceSelectionParams{LanguageCode: lang, Name: name}

	// Только MP3
	audio := &ttspb.AudioConfig{
		AudioEncoding: ttspb.AudioEncoding_MP3,
		SpeakingRate:  c.cfg.SpeakingRate,
		Pitch:         c.cfg.Pitch,
		VolumeGainDb:  c.cfg.VolumeGainDb,
	}
	if ep := strings.TrimSpace(c.cfg.EffectsProfileID); ep != "" {
		audio.EffectsProfileId = []string{ep}
	}

	started := time.Now()
	resp, err := c.api.SynthesizeSpeech(ctx, &ttspb.SynthesizeSpeechRequest{Input: input, Voice: voice, AudioConfig: audio})
	if err != nil {
		return tts.Audio{}, classify(err)
	}
	if c.logger != nil {
		c.logger.Infow("Google TTS synthesize completed", "voice", voice.Name, "lang", lang, "took", time.Since(started).String())
	}
	return tts.Audio{Format: "mp3", Data: resp.GetAudioContent()}, nil
}

// classify переводит gRPC-статус в код ошибки для UI.
func classify(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return &tts.Error{Code: tts.CodeSynthesisFailed, Err: err}
	}
	msg := strings.ToLower(st.Message())
	code := tts.CodeSynthesisFailed
	switch st.Code() {
	case codes.PermissionDenied, codes.Unauthenticated:
		code = tts.CodeNotAllowed
	case codes.InvalidArgument, codes.NotFound:
		switch {
		case strings.Contains(msg, "language"):
			code = tts.CodeLanguageUnavailable
		case strings.Contains(msg, "voice"):
			code = tts.CodeVoiceUnavailable
		default:
			code = tts.CodeInvalidArgument
		}
	case codes.Unavailable, codes.DeadlineExceeded:
		code = tts.CodeNetwork
	case codes.ResourceExhausted:
		code = tts.CodeServiceNotAllowed
	}
	return &tts.Error{Code: code, Err: err}
}
