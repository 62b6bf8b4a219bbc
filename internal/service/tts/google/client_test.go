package google

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"TeluguTTS/internal/service/voices"
	"context"
	"errors"
	"testing"

	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeAPI struct {
	voices  []*ttspb.Voice
	audio   []byte
	err     error
	lastReq *ttspb.SynthesizeSpeechRequest
}

func (f *fakeAPI) ListVoices(context.Context, *ttspb.ListVoicesRequest, ...gax.CallOption) (*ttspb.ListVoicesResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ttspb.ListVoicesResponse{Voices: f.voices}, nil
}

func (f *fakeAPI) SynthesizeSpeech(_ context.Context, req *ttspb.SynthesizeSpeechRequest, _ ...gax.CallOption) (*ttspb.SynthesizeSpeechResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &ttspb.SynthesizeSpeechResponse{AudioContent: f.audio}, nil
}

func newTestClient(t *testing.T, f *fakeAPI) *Client {
	cfg := config.Defaults().GoogleTTS
	return &Client{api: f, cfg: cfg, logger: zaptest.NewLogger(t).Sugar()}
}

func TestListVoicesExpandsLanguages(t *testing.T) {
	f := &fakeAPI{voices: []*ttspb.Voice{
		{Name: "te-IN-Standard-A", LanguageCodes: []string{"te-IN"}},
		{Name: "multi", LanguageCodes: []string{"en-US", "en-GB"}},
	}}
	c := newTestClient(t, f)

	got, err := c.ListVoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []tts.Voice{
		{ID: "te-IN/te-IN-Standard-A", Name: "te-IN-Standard-A", Lang: "te-IN"},
		{ID: "en-US/multi", Name: "multi", Lang: "en-US"},
		{ID: "en-GB/multi", Name: "multi", Lang: "en-GB"},
	}, got)
}

func TestMultilingualVoiceKeysResolve(t *testing.T) {
	f := &fakeAPI{voices: []*ttspb.Voice{
		{Name: "multi", LanguageCodes: []string{"en-US", "en-GB"}},
	}}
	c := newTestClient(t, f)

	list, err := c.ListVoices(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	v, ok := voices.Find(list, list[1].ID)
	require.True(t, ok)
	assert.Equal(t, "en-GB", v.Lang)

	_, err = c.Synthesize(context.Background(), tts.Request{Text: "hi", VoiceID: v.ID, Lang: v.Lang})
	require.NoError(t, err)
	assert.Equal(t, "multi", f.lastReq.GetVoice().GetName())
	assert.Equal(t, "en-GB", f.lastReq.GetVoice().GetLanguageCode())

	// язык берётся из ключа, если в заявке его нет
	_, err = c.Synthesize(context.Background(), tts.Request{Text: "hi", VoiceID: "en-GB/multi"})
	require.NoError(t, err)
	assert.Equal(t, "en-GB", f.lastReq.GetVoice().GetLanguageCode())
}

func TestSynthesizeAutoUsesConfiguredVoice(t *testing.T) {
	f := &fakeAPI{audio: []byte("mp3")}
	c := newTestClient(t, f)

	a, err := c.Synthesize(context.Background(), tts.Request{Text: "హలో"})
	require.NoError(t, err)
	assert.Equal(t, "mp3", a.Format)
	assert.Equal(t, []byte("mp3"), a.Data)
	assert.Equal(t, c.cfg.Language, f.lastReq.GetVoice().GetLanguageCode())
	assert.Equal(t, c.cfg.Voice, f.lastReq.GetVoice().GetName())
}

func TestSynthesizeBoundVoice(t *testing.T) {
	f := &fakeAPI{}
	c := newTestClient(t, f)

	_, err := c.Synthesize(context.Background(), tts.Request{Text: "hi", VoiceID: "en-US-Wavenet-A", Lang: "en-US"})
	require.NoError(t, err)
	assert.Equal(t, "en-US-Wavenet-A", f.lastReq.GetVoice().GetName())
	assert.Equal(t, "en-US", f.lastReq.GetVoice().GetLanguageCode())
	assert.Equal(t, "hi", f.lastReq.GetInput().GetText())
}

func TestSynthesizeSSMLAutodetect(t *testing.T) {
	f := &fakeAPI{}
	c := newTestClient(t, f)

	_, err := c.Synthesize(context.Background(), tts.Request{Text: "<speak>hi</speak>"})
	require.NoError(t, err)
	assert.Equal(t, "<speak>hi</speak>", f.lastReq.GetInput().GetSsml())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{status.Error(codes.PermissionDenied, "denied"), tts.CodeNotAllowed},
		{status.Error(codes.Unauthenticated, "no creds"), tts.CodeNotAllowed},
		{status.Error(codes.InvalidArgument, "Language te-XX is not supported"), tts.CodeLanguageUnavailable},
		{status.Error(codes.InvalidArgument, "Voice 'x' does not exist"), tts.CodeVoiceUnavailable},
		{status.Error(codes.Unavailable, "down"), tts.CodeNetwork},
		{status.Error(codes.Internal, "boom"), tts.CodeSynthesisFailed},
		{errors.New("plain"), tts.CodeSynthesisFailed},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tts.CodeOf(classify(tc.err)), tc.err.Error())
	}
}
