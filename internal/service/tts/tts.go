package tts

import (
	"context"
	"io"
)

// Voice голос, который умеет озвучивать провайдер.
type Voice struct {
	ID   string // ключ для выбора голоса
	Name string // отображаемое имя
	Lang string // языковой тег, напр. te-IN
}

// Request одна заявка на озвучивание текста.
type Request struct {
	ID      string
	Text    string
	VoiceID string // пусто: голос выбирает провайдер
	Lang    string // пусто: язык голоса или язык провайдера по умолчанию
}

// Callbacks обработчики жизненного цикла заявки.
// Гарантированный порядок: OnStart, затем ровно один из OnEnd/OnError.
type Callbacks struct {
	OnStart func()
	OnEnd   func()
	OnError func(code string)
}

// Provider речевой движок: список голосов, запуск и отмена озвучивания.
// Speak не блокирует, результат приходит через Callbacks.
type Provider interface {
	Voices() []Voice
	Speak(req Request, cb Callbacks)
	Cancel()
}

// VoiceNotifier опциональная возможность провайдера: сигнал об изменении списка голосов.
type VoiceNotifier interface {
	OnVoicesChanged(fn func())
}

// Audio синтезированный звук в формате, который понимает плеер (mp3|wav).
type Audio struct {
	Format string
	Data   []byte
}

// Synthesizer абстракция TTS-бэкенда. Только синтез, без воспроизведения.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (Audio, error)
}

// VoiceLister отдаёт каталог голосов бэкенда.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]Voice, error)
}

// Player воспроизводит аудио до конца или до отмены ctx.
type Player interface {
	Play(ctx context.Context, format string, r io.ReadCloser) error
}
