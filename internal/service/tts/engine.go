package tts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

// Ensure interface compliance
var (
	_ Provider      = (*Engine)(nil)
	_ VoiceNotifier = (*Engine)(nil)
)

// EngineConfig параметры движка.
type EngineConfig struct {
	RefreshInterval time.Duration // период перечитывания каталога голосов; 0: только при старте
	ListTimeout     time.Duration // таймаут одного запроса каталога
	CacheTTL        time.Duration // время жизни синтезированного аудио в кэше; 0: без кэша
	MaxTextLength   int           // максимум символов в заявке; 0: без ограничения
}

// Engine реализует Provider поверх бэкенда синтеза и плеера.
// Одновременно озвучивается не больше одной заявки.
type Engine struct {
	synth  Synthesizer
	lister VoiceLister
	player Player
	logger *zap.SugaredLogger
	cfg    EngineConfig
	cache  *ttlcache.Cache[string, Audio]

	mu        sync.Mutex
	voices    []Voice
	listeners []func()
	busy      bool
	cancel    context.CancelFunc
}

func NewEngine(synth Synthesizer, lister VoiceLister, p Player, cfg EngineConfig, logger *zap.SugaredLogger) *Engine {
	if cfg.ListTimeout <= 0 {
		cfg.ListTimeout = 15 * time.Second
	}
	e := &Engine{synth: synth, lister: lister, player: p, cfg: cfg, logger: logger}
	if cfg.CacheTTL > 0 {
		e.cache = ttlcache.New[string, Audio](
			ttlcache.WithTTL[string, Audio](cfg.CacheTTL),
			ttlcache.WithCapacity[string, Audio](64),
		)
	}
	return e
}

// Run загружает каталог голосов и периодически его обновляет до отмены ctx.
func (e *Engine) Run(ctx context.Context) error {
	if e.cache != nil {
		go e.cache.Start()
		defer e.cache.Stop()
	}
	defer e.Cancel()

	e.refresh(ctx)
	if e.cfg.RefreshInterval <= 0 {
		<-ctx.Done()
		return context.Cause(ctx)
	}

	t := time.NewTicker(e.cfg.RefreshInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-t.C:
			e.refresh(ctx)
		}
	}
}

// Voices возвращает копию текущего каталога. Не блокирует.
func (e *Engine) Voices() []Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

func (e *Engine) OnVoicesChanged(fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

// Speak запускает заявку в отдельной горутине. Колбэки никогда не вызываются синхронно.
func (e *Engine) Speak(req Request, cb Callbacks) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		e.logger.Warnw("Speak rejected: engine busy", "request", req.ID)
		go cb.fail(CodeAudioBusy)
		return
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	e.busy = true
	e.cancel = func() { cancel(errCanceled) }
	e.mu.Unlock()

	go e.run(ctx, cancel, req, cb)
}

// Cancel прерывает текущую заявку; она завершится через OnEnd.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

var errCanceled = errors.New("speech canceled")

func (e *Engine) run(ctx context.Context, cancel context.CancelCauseFunc, req Request, cb Callbacks) {
	cb.start()
	started := time.Now()
	err := e.process(ctx, req)
	canceled := errors.Is(context.Cause(ctx), errCanceled)
	cancel(nil)

	// Освобождаем движок до терминального колбэка, чтобы следующая заявка не получила audio-busy
	e.mu.Lock()
	e.busy = false
	e.cancel = nil
	e.mu.Unlock()

	switch {
	case err == nil:
		e.logger.Infow("Speech finished", "request", req.ID, "took", time.Since(started).String())
		cb.end()
	case canceled:
		// Отмена всегда завершается через OnEnd, даже если бэкенд успел вернуть ошибку
		e.logger.Infow("Speech canceled", "request", req.ID)
		cb.end()
	default:
		code := CodeOf(err)
		e.logger.Warnw("Speech failed", "request", req.ID, "code", code, "error", err)
		cb.fail(code)
	}
}

func (e *Engine) process(ctx context.Context, req Request) error {
	if e.cfg.MaxTextLength > 0 && utf8.RuneCountInString(req.Text) > e.cfg.MaxTextLength {
		return Errorf(CodeTextTooLong, "text has %d characters, limit %d", utf8.RuneCountInString(req.Text), e.cfg.MaxTextLength)
	}
	audio, err := e.synthesize(ctx, req)
	if err != nil {
		return err
	}
	if err := e.player.Play(ctx, audio.Format, io.NopCloser(bytes.NewReader(audio.Data))); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &Error{Code: CodeAudioHardware, Err: err}
	}
	return nil
}

func (e *Engine) synthesize(ctx context.Context, req Request) (Audio, error) {
	key := req.VoiceID + "|" + req.Lang + "|" + req.Text
	if e.cache != nil {
		if item := e.cache.Get(key); item != nil {
			e.logger.Debugw("Audio cache hit", "request", req.ID)
			return item.Value(), nil
		}
	}
	audio, err := e.synth.Synthesize(ctx, req)
	if err != nil {
		return Audio{}, err
	}
	if e.cache != nil {
		e.cache.Set(key, audio, ttlcache.DefaultTTL)
	}
	return audio, nil
}

// refresh перечитывает каталог и оповещает подписчиков, если он изменился.
func (e *Engine) refresh(parent context.Context) {
	if e.lister == nil {
		return
	}
	ctx, cancel := context.WithTimeoutCause(parent, e.cfg.ListTimeout, errors.New("voice list timeout"))
	defer cancel()

	list, err := e.lister.ListVoices(ctx)
	if err != nil {
		e.logger.Warnw("Failed to load voices", "error", err)
		return
	}

	e.mu.Lock()
	if sameVoices(e.voices, list) {
		e.mu.Unlock()
		return
	}
	e.voices = list
	listeners := make([]func(), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	e.logger.Infow("Voices loaded", "count", len(list))
	for _, fn := range listeners {
		fn()
	}
}

func sameVoices(a, b []Voice) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[Voice]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		if seen[v] == 0 {
			return false
		}
		seen[v]--
	}
	return true
}

func (cb Callbacks) start() {
	if cb.OnStart != nil {
		cb.OnStart()
	}
}

func (cb Callbacks) end() {
	if cb.OnEnd != nil {
		cb.OnEnd()
	}
}

func (cb Callbacks) fail(code string) {
	if cb.OnError != nil {
		cb.OnError(code)
	}
}
