package controller

import "TeluguTTS/internal/service/voices"

// Severity тип статусного сообщения.
type Severity string

const (
	SeverityNone    Severity = ""
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Status текущее статусное сообщение. Пустое: статуса нет.
type Status struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Surface то, чем управляет контроллер: поле ввода, список голосов, кнопки, статус.
// Вызовы приходят только из цикла контроллера, по одному.
type Surface interface {
	SetVoiceOptions(opts []voices.Option)
	SetVoiceSelectEnabled(enabled bool)
	SetSpeakEnabled(enabled bool)
	// SetStopVisible показывает/прячет кнопку остановки (не disabled, а именно скрытие).
	SetStopVisible(visible bool)
	SetStatus(s Status)
	FocusText()
}
