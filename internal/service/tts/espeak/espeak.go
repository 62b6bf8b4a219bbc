// Package espeak озвучивает текст локальным espeak-ng (или espeak) без сети.
package espeak

import (
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Ensure interface compliance
var (
	_ tts.Synthesizer = (*Client)(nil)
	_ tts.VoiceLister = (*Client)(nil)
)

// runner запускает внешнюю команду и возвращает stdout. Подменяется в тестах.
type runner func(ctx context.Context, bin string, args ...string) (stdout, stderr []byte, err error)

// Client синтезирует речь через CLI espeak-ng.
type Client struct {
	cfg config.EspeakConfig
	run runner
}

func New(cfg config.EspeakConfig) *Client {
	return &Client{cfg: cfg, run: execRun}
}

func execRun(ctx context.Context, bin string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// binary ищет исполняемый файл: из конфига, затем espeak-ng, затем espeak.
func (c *Client) binary() (string, error) {
	if c.cfg.Binary != "" {
		return c.cfg.Binary, nil
	}
	for _, bin := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(bin); err == nil {
			return path, nil
		}
	}
	return "", &tts.Error{Code: tts.CodeSynthesisUnavailable, Err: errors.New("speech not available: install espeak-ng or espeak")}
}

// ListVoices разбирает вывод `espeak-ng --voices`.
func (c *Client) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	bin, err := c.binary()
	if err != nil {
		return nil, err
	}
	out, stderr, err := c.run(ctx, bin, "--voices")
	if err != nil {
		return nil, fmt.Errorf("espeak voices: %w: %s", err, bytes.TrimSpace(stderr))
	}
	return parseVoices(out), nil
}

// Synthesize рендерит WAV в stdout (--stdout).
func (c *Client) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	bin, err := c.binary()
	if err != nil {
		return tts.Audio{}, err
	}
	args := []string{"--stdout", "-a", strconv.Itoa(c.cfg.Amplitude), "-s", strconv.Itoa(c.cfg.Speed)}
	switch {
	case req.VoiceID != "":
		args = append(args, "-v", req.VoiceID)
	case req.Lang != "":
		// espeak понимает язык без региона: te-IN → te
		lang, _, _ := strings.Cut(strings.ToLower(req.Lang), "-")
		args = append(args, "-v", lang)
	}
	// "--" чтобы текст, начинающийся с '-', не приняли за флаг
	args = append(args, "--", req.Text)

	out, stderr, err := c.run(ctx, bin, args...)
	if err != nil {
		if ctx.Err() != nil {
			return tts.Audio{}, ctx.Err()
		}
		return tts.Audio{}, &tts.Error{Code: tts.CodeSynthesisFailed, Err: fmt.Errorf("espeak: %w: %s", err, bytes.TrimSpace(stderr))}
	}
	// Неизвестный голос espeak не считает ошибкой: пишет в stderr и выходит с пустым выводом
	if msg := strings.ToLower(string(stderr)); strings.Contains(msg, "voice") && len(out) == 0 {
		code := tts.CodeVoiceUnavailable
		if req.VoiceID == "" {
			code = tts.CodeLanguageUnavailable
		}
		return tts.Audio{}, &tts.Error{Code: code, Err: fmt.Errorf("espeak: %s", bytes.TrimSpace(stderr))}
	}
	if len(out) == 0 {
		return tts.Audio{}, &tts.Error{Code: tts.CodeSynthesisFailed, Err: errors.New("espeak: empty output")}
	}
	return tts.Audio{Format: "wav", Data: out}, nil
}

// parseVoices разбирает таблицу:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  te              --/M      Telugu             dra/te
func parseVoices(out []byte) []tts.Voice {
	var voices []tts.Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 {
			continue
		}
		lang, name, file := fields[1], fields[3], fields[4]
		voices = append(voices, tts.Voice{
			ID:   file,
			Name: strings.ReplaceAll(name, "_", " "),
			Lang: lang,
		})
	}
	return voices
}
