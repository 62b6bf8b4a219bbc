package controller

import (
	"TeluguTTS/internal/service/tts"
	"TeluguTTS/internal/service/voices"
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaybackState состояние воспроизведения.
type PlaybackState int32

const (
	Idle PlaybackState = iota
	Speaking
)

func (s PlaybackState) String() string {
	if s == Speaking {
		return "speaking"
	}
	return "idle"
}

// Options языковые настройки контроллера.
type Options struct {
	TargetPrefix  string        // префикс приоритетного языка, например "te"
	DefaultLocale string        // язык заявки при выборе auto, например "te-IN"
	StatusTTL     time.Duration // через сколько гаснет не-ошибочный статус
	Messages      Messages
}

// DefaultOptions настройки для телугу.
func DefaultOptions() Options {
	return Options{
		TargetPrefix:  "te",
		DefaultLocale: "te-IN",
		StatusTTL:     5 * time.Second,
		Messages:      TeluguMessages(),
	}
}

type timer interface{ Stop() bool }

// Controller связывает Surface и tts.Provider.
// Всё изменяемое состояние принадлежит циклу Run; остальные горутины только шлют события.
type Controller struct {
	provider tts.Provider
	ui       Surface
	opts     Options
	logger   *zap.SugaredLogger

	events chan event
	done   chan struct{}

	newID     func() string
	afterFunc func(d time.Duration, f func()) timer

	// состояние цикла
	voices   []tts.Voice
	active   *tts.Request // отправлена провайдеру и ещё не завершена
	status   Status
	gen      uint64 // поколение статуса, последний showStatus побеждает
	timer    timer
	disabled bool

	state atomic.Int32
}

// New создаёт контроллер. provider может быть nil: тогда интерфейс блокируется в Run.
func New(provider tts.Provider, ui Surface, opts Options, logger *zap.SugaredLogger) *Controller {
	def := DefaultOptions()
	if opts.TargetPrefix == "" {
		opts.TargetPrefix = def.TargetPrefix
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = def.DefaultLocale
	}
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = def.StatusTTL
	}
	if opts.Messages == (Messages{}) {
		opts.Messages = def.Messages
	}
	return &Controller{
		provider: provider,
		ui:       ui,
		opts:     opts,
		logger:   logger,
		events:   make(chan event, 64),
		done:     make(chan struct{}),
		newID:    func() string { return uuid.NewString() },
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

// Run инициализирует интерфейс и обрабатывает события до отмены ctx.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	c.initialize()
	for {
		select {
		case <-ctx.Done():
			c.stopTimer()
			return context.Cause(ctx)
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

// Speak просит озвучить text голосом key ("" или voices.AutoKey: по языку).
func (c *Controller) Speak(text, key string) { c.post(speakEvent{text: text, key: key}) }

// Stop прерывает текущее озвучивание.
func (c *Controller) Stop() { c.post(stopEvent{}) }

// TextEdited сообщает о правке текста пользователем.
func (c *Controller) TextEdited() { c.post(textEditedEvent{}) }

// State текущее состояние воспроизведения.
func (c *Controller) State() PlaybackState { return PlaybackState(c.state.Load()) }

// Done закрывается после выхода из Run.
func (c *Controller) Done() <-chan struct{} { return c.done }

func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

type event interface{}

type (
	speakEvent         struct{ text, key string }
	stopEvent          struct{}
	textEditedEvent    struct{}
	voicesChangedEvent struct{}
	startedEvent       struct{ id string }
	endedEvent         struct{ id string }
	failedEvent        struct{ id, code string }
	statusExpiredEvent struct{ gen uint64 }
	syncEvent          struct{ done chan struct{} }
)

func (c *Controller) handle(ev event) {
	switch e := ev.(type) {
	case speakEvent:
		c.speak(e.text, e.key)
	case stopEvent:
		c.stop()
	case textEditedEvent:
		c.textEdited()
	case voicesChangedEvent:
		if !c.disabled {
			c.populateVoices()
		}
	case startedEvent:
		c.onStart(e.id)
	case endedEvent:
		c.onEnd(e.id)
	case failedEvent:
		c.onError(e.id, e.code)
	case statusExpiredEvent:
		if e.gen == c.gen {
			c.clearStatus()
		}
	case syncEvent:
		close(e.done)
	}
}

func (c *Controller) initialize() {
	if c.provider == nil {
		c.disabled = true
		c.logger.Errorw("Speech provider unavailable, controls disabled")
		c.ui.SetSpeakEnabled(false)
		c.ui.SetVoiceSelectEnabled(false)
		c.ui.SetStopVisible(false)
		c.showStatus(c.opts.Messages.Unsupported, SeverityError)
		return
	}

	// подписка до первого чтения: иначе загрузка каталога между ними теряется
	if n, ok := c.provider.(tts.VoiceNotifier); ok {
		n.OnVoicesChanged(func() { c.post(voicesChangedEvent{}) })
	} else {
		c.logger.Debugw("Provider does not report voice changes")
	}
	c.populateVoices()
	c.ui.SetSpeakEnabled(true)
	c.ui.SetStopVisible(false)
	c.showStatus(c.opts.Messages.Ready, SeverityInfo)
}

func (c *Controller) populateVoices() {
	c.voices = c.provider.Voices()
	c.ui.SetVoiceOptions(voices.Build(c.voices, c.opts.TargetPrefix, c.opts.Messages.Auto))
	if len(c.voices) == 0 {
		c.logger.Warnw("No voices available")
		c.ui.SetVoiceSelectEnabled(false)
		c.showStatus(c.opts.Messages.NoVoices, SeverityError)
		return
	}
	c.logger.Infow("Voices loaded", "count", len(c.voices))
	c.ui.SetVoiceSelectEnabled(true)
	// голоса появились: ошибка «нет голосов» больше не актуальна
	if c.status == (Status{Text: c.opts.Messages.NoVoices, Severity: SeverityError}) {
		c.clearStatus()
	}
}

func (c *Controller) speak(raw, key string) {
	if c.disabled {
		c.logger.Debugw("Speak ignored: provider unavailable")
		return
	}
	if c.active != nil {
		c.logger.Warnw("Speak ignored: request in flight", "request", c.active.ID)
		return
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		c.showStatus(c.opts.Messages.EmptyText, SeverityError)
		c.ui.FocusText()
		return
	}

	req := tts.Request{ID: c.newID(), Text: text}
	switch {
	case key == "" || key == voices.AutoKey:
		req.Lang = c.opts.DefaultLocale
	default:
		if v, ok := voices.Find(c.voices, key); ok {
			req.VoiceID = v.ID
			req.Lang = v.Lang
		} else {
			c.logger.Warnw("Selected voice not found, using provider default", "voice", key)
		}
	}

	c.active = &req
	c.clearStatus()
	c.logger.Infow("Speak", "request", req.ID, "voice", req.VoiceID, "lang", req.Lang, "chars", len([]rune(text)))

	id := req.ID
	c.provider.Speak(req, tts.Callbacks{
		OnStart: func() { c.post(startedEvent{id: id}) },
		OnEnd:   func() { c.post(endedEvent{id: id}) },
		OnError: func(code string) { c.post(failedEvent{id: id, code: code}) },
	})
}

func (c *Controller) stop() {
	if c.disabled || c.active == nil {
		return
	}
	c.logger.Infow("Stop requested", "request", c.active.ID)
	c.provider.Cancel()
}

func (c *Controller) textEdited() {
	if c.active != nil || c.status.Text == "" || c.status.Severity == SeverityError {
		return
	}
	c.clearStatus()
}

func (c *Controller) current(id string) bool {
	if c.active == nil || c.active.ID != id {
		c.logger.Debugw("Stale provider callback ignored", "request", id)
		return false
	}
	return true
}

func (c *Controller) onStart(id string) {
	if !c.current(id) {
		return
	}
	c.state.Store(int32(Speaking))
	c.showStatus(c.opts.Messages.Started, SeverityInfo)
	c.ui.SetSpeakEnabled(false)
	c.ui.SetStopVisible(true)
}

func (c *Controller) onEnd(id string) {
	if !c.current(id) {
		return
	}
	c.finish()
	c.showStatus(c.opts.Messages.Finished, SeveritySuccess)
}

func (c *Controller) onError(id, code string) {
	if !c.current(id) {
		return
	}
	c.logger.Errorw("Speech error", "request", id, "code", code)
	c.finish()
	c.showStatus(c.opts.Messages.ForError(code), SeverityError)
}

func (c *Controller) finish() {
	c.active = nil
	c.state.Store(int32(Idle))
	c.ui.SetSpeakEnabled(true)
	c.ui.SetStopVisible(false)
}

func (c *Controller) showStatus(text string, sev Severity) {
	c.stopTimer()
	c.gen++
	c.status = Status{Text: text, Severity: sev}
	c.ui.SetStatus(c.status)
	if sev == SeverityError {
		return
	}
	gen := c.gen
	c.timer = c.afterFunc(c.opts.StatusTTL, func() { c.post(statusExpiredEvent{gen: gen}) })
}

func (c *Controller) clearStatus() {
	c.stopTimer()
	c.gen++
	c.status = Status{}
	c.ui.SetStatus(c.status)
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
