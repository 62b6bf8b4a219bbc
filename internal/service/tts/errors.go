package tts

import (
	"errors"
	"fmt"
)

// Коды ошибок совпадают с кодами SpeechSynthesisErrorEvent.
const (
	CodeNotAllowed           = "not-allowed"
	CodeServiceNotAllowed    = "service-not-allowed"
	CodeLanguageUnavailable  = "language-unavailable"
	CodeVoiceUnavailable     = "voice-unavailable"
	CodeSynthesisFailed      = "synthesis-failed"
	CodeSynthesisUnavailable = "synthesis-unavailable"
	CodeAudioBusy            = "audio-busy"
	CodeAudioHardware        = "audio-hardware"
	CodeNetwork              = "network"
	CodeTextTooLong          = "text-too-long"
	CodeInvalidArgument      = "invalid-argument"
)

// Error ошибка бэкенда с кодом для UI.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return e.Code + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf оборачивает ошибку в Error с заданным кодом.
func Errorf(code, format string, args ...any) error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

// CodeOf достаёт код из цепочки ошибок. Без кода: synthesis-failed.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return CodeSynthesisFailed
}
