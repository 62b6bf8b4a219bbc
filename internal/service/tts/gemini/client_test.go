package gemini

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := config.Defaults().GeminiTTS
	cfg.Endpoint = srv.URL
	return &Client{http: srv.Client(), cfg: cfg, logger: zaptest.NewLogger(t).Sugar()}
}

func TestListVoicesPerLanguage(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {})

	voices, err := c.ListVoices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, len(voiceNames)*2)
	assert.Equal(t, tts.Voice{ID: "te-IN/Aoede", Name: "Aoede", Lang: "te-IN"}, voices[0])
	assert.Equal(t, "en-US", voices[len(voices)-1].Lang)
}

func TestSynthesizeSendsVoiceAndDecodesAudio(t *testing.T) {
	var got requestPayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(jsonAudioResponse{AudioContent: base64.StdEncoding.EncodeToString([]byte("mp3-bytes"))})
	})

	a, err := c.Synthesize(context.Background(), tts.Request{Text: "హలో", VoiceID: "te-IN/Kore", Lang: "te-IN"})
	require.NoError(t, err)
	assert.Equal(t, tts.Audio{Format: "mp3", Data: []byte("mp3-bytes")}, a)
	assert.Equal(t, "Kore", got.Voice.VoiceName)
	assert.Equal(t, "te-IN", got.Voice.LanguageCode)
	assert.Equal(t, "gemini-2.5-flash-tts", got.Voice.ModelName)
	assert.Equal(t, "MP3", got.AudioConfig.AudioEncoding)
}

func TestSynthesizeAutoVoice(t *testing.T) {
	var got requestPayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(jsonAudioResponse{AudioContent: base64.StdEncoding.EncodeToString([]byte("x"))})
	})

	_, err := c.Synthesize(context.Background(), tts.Request{Text: "hi"})
	require.NoError(t, err)
	assert.Empty(t, got.Voice.VoiceName)
	assert.Equal(t, "te-IN", got.Voice.LanguageCode)
}

func TestSynthesizeErrorCodes(t *testing.T) {
	cases := []struct {
		status int
		msg    string
		want   string
	}{
		{http.StatusForbidden, "permission denied", tts.CodeNotAllowed},
		{http.StatusBadRequest, "Language code xx-YY is not supported", tts.CodeLanguageUnavailable},
		{http.StatusBadRequest, "Voice 'Nope' does not exist", tts.CodeVoiceUnavailable},
		{http.StatusBadRequest, "bad input", tts.CodeSynthesisFailed},
		{http.StatusServiceUnavailable, "try later", tts.CodeNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				var er errorResponse
				er.Error.Message = tc.msg
				_ = json.NewEncoder(w).Encode(er)
			})
			_, err := c.Synthesize(context.Background(), tts.Request{Text: "hi"})
			require.Error(t, err)
			assert.Equal(t, tc.want, tts.CodeOf(err))
		})
	}
}
