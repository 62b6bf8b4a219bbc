package espeak

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const voicesOutput = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  en-us           --/M      English_(America)  gmw/en-US            (en 3)
 5  ta              --/M      Tamil              dra/ta
 5  te              --/M      Telugu             dra/te
`

type call struct {
	bin  string
	args []string
}

func newTestClient(stdout, stderr string, err error) (*Client, *[]call) {
	var calls []call
	c := New(config.EspeakConfig{Binary: "/usr/bin/espeak-ng", Amplitude: 100, Speed: 160})
	c.run = func(_ context.Context, bin string, args ...string) ([]byte, []byte, error) {
		calls = append(calls, call{bin: bin, args: args})
		return []byte(stdout), []byte(stderr), err
	}
	return c, &calls
}

func TestParseVoices(t *testing.T) {
	got := parseVoices([]byte(voicesOutput))
	assert.Equal(t, []tts.Voice{
		{ID: "gmw/en-US", Name: "English (America)", Lang: "en-us"},
		{ID: "dra/ta", Name: "Tamil", Lang: "ta"},
		{ID: "dra/te", Name: "Telugu", Lang: "te"},
	}, got)
}

func TestListVoices(t *testing.T) {
	c, calls := newTestClient(voicesOutput, "", nil)

	voices, err := c.ListVoices(context.Background())
	require.NoError(t, err)
	assert.Len(t, voices, 3)
	assert.Equal(t, []string{"--voices"}, (*calls)[0].args)
}

func TestSynthesizeArgs(t *testing.T) {
	t.Run("bound voice", func(t *testing.T) {
		c, calls := newTestClient("RIFF", "", nil)
		a, err := c.Synthesize(context.Background(), tts.Request{Text: "hi", VoiceID: "gmw/en-US"})
		require.NoError(t, err)
		assert.Equal(t, "wav", a.Format)
		assert.Equal(t, []string{"--stdout", "-a", "100", "-s", "160", "-v", "gmw/en-US", "--", "hi"}, (*calls)[0].args)
	})
	t.Run("language only", func(t *testing.T) {
		c, calls := newTestClient("RIFF", "", nil)
		_, err := c.Synthesize(context.Background(), tts.Request{Text: "హలో", Lang: "te-IN"})
		require.NoError(t, err)
		assert.Equal(t, []string{"--stdout", "-a", "100", "-s", "160", "-v", "te", "--", "హలో"}, (*calls)[0].args)
	})
}

func TestSynthesizeErrors(t *testing.T) {
	t.Run("unknown voice", func(t *testing.T) {
		c, _ := newTestClient("", "Failed to read voice 'xx'", nil)
		_, err := c.Synthesize(context.Background(), tts.Request{Text: "hi", VoiceID: "xx"})
		assert.Equal(t, tts.CodeVoiceUnavailable, tts.CodeOf(err))
	})
	t.Run("unknown language", func(t *testing.T) {
		c, _ := newTestClient("", "Failed to read voice 'zz'", nil)
		_, err := c.Synthesize(context.Background(), tts.Request{Text: "hi", Lang: "zz-ZZ"})
		assert.Equal(t, tts.CodeLanguageUnavailable, tts.CodeOf(err))
	})
	t.Run("process failure", func(t *testing.T) {
		c, _ := newTestClient("", "boom", errors.New("exit status 1"))
		_, err := c.Synthesize(context.Background(), tts.Request{Text: "hi"})
		assert.Equal(t, tts.CodeSynthesisFailed, tts.CodeOf(err))
	})
}
