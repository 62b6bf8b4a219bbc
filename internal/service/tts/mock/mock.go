// Package mock содержит тестового двойника tts.Provider.
//
// Provider запоминает заявки и колбэки; тест сам решает, когда «провайдер»
// начинает и заканчивает озвучивание:
//
//	p := mock.New(tts.Voice{ID: "a", Name: "Voice A", Lang: "te-IN"})
//	ctrl.Speak("హలో", "auto")
//	p.Start()
//	p.End()
package mock

import (
	"TeluguTTS/internal/service/tts"
	"sync"
)

// Ensure interface compliance
var (
	_ tts.Provider      = (*Provider)(nil)
	_ tts.VoiceNotifier = (*Provider)(nil)
)

// Provider мок провайдера с возможностью VoiceNotifier.
type Provider struct {
	mu        sync.Mutex
	voices    []tts.Voice
	listeners []func()
	requests  []tts.Request
	callbacks []tts.Callbacks
	cancels   int

	// CancelEnds: Cancel сразу вызывает OnEnd последней заявки, как браузер.
	CancelEnds bool
}

func New(voices ...tts.Voice) *Provider {
	return &Provider{voices: voices}
}

func (p *Provider) Voices() []tts.Voice {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]tts.Voice, len(p.voices))
	copy(out, p.voices)
	return out
}

func (p *Provider) Speak(req tts.Request, cb tts.Callbacks) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	p.callbacks = append(p.callbacks, cb)
}

func (p *Provider) Cancel() {
	p.mu.Lock()
	p.cancels++
	end := p.CancelEnds
	p.mu.Unlock()
	if end {
		p.End()
	}
}

func (p *Provider) OnVoicesChanged(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// SetVoices заменяет каталог и оповещает подписчиков.
func (p *Provider) SetVoices(voices ...tts.Voice) {
	p.mu.Lock()
	p.voices = voices
	listeners := append([]func(){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Requests возвращает все полученные заявки по порядку.
func (p *Provider) Requests() []tts.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]tts.Request(nil), p.requests...)
}

// Cancels сколько раз вызывали Cancel.
func (p *Provider) Cancels() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancels
}

// Listeners сколько подписчиков на изменение голосов.
func (p *Provider) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

func (p *Provider) last() tts.Callbacks {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.callbacks) == 0 {
		return tts.Callbacks{}
	}
	return p.callbacks[len(p.callbacks)-1]
}

// Start вызывает OnStart последней заявки.
func (p *Provider) Start() {
	if cb := p.last(); cb.OnStart != nil {
		cb.OnStart()
	}
}

// End вызывает OnEnd последней заявки.
func (p *Provider) End() {
	if cb := p.last(); cb.OnEnd != nil {
		cb.OnEnd()
	}
}

// Fail вызывает OnError последней заявки.
func (p *Provider) Fail(code string) {
	if cb := p.last(); cb.OnError != nil {
		cb.OnError(code)
	}
}

// Callbacks колбэки заявки с индексом i.
func (p *Provider) Callbacks(i int) tts.Callbacks {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callbacks[i]
}

// Plain провайдер без возможности VoiceNotifier.
type Plain struct{ p *Provider }

// WithoutNotifier прячет OnVoicesChanged.
func WithoutNotifier(p *Provider) *Plain { return &Plain{p: p} }

func (w *Plain) Voices() []tts.Voice { return w.p.Voices() }

func (w *Plain) Speak(req tts.Request, cb tts.Callbacks) { w.p.Speak(req, cb) }

func (w *Plain) Cancel() { w.p.Cancel() }
