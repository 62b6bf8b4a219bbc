// Package console реализует controller.Surface для запуска из терминала.
package console

import (
	"TeluguTTS/internal/app/controller"
	"TeluguTTS/internal/service/voices"
	"sync"

	"go.uber.org/zap"
)

// Ensure interface compliance
var _ controller.Surface = (*Surface)(nil)

// Surface пишет изменения интерфейса в лог и отдаёт статусы в канал.
type Surface struct {
	logger   *zap.SugaredLogger
	statuses chan controller.Status

	once        sync.Once
	voicesReady chan struct{}

	mu      sync.Mutex
	options []voices.Option
}

func New(logger *zap.SugaredLogger) *Surface {
	return &Surface{
		logger:      logger,
		statuses:    make(chan controller.Status, 16),
		voicesReady: make(chan struct{}),
	}
}

// Statuses непустые статусы по порядку. Если читатель отстал, статус теряется.
func (s *Surface) Statuses() <-chan controller.Status { return s.statuses }

// VoicesReady закрывается, когда список голосов впервые стал доступен.
func (s *Surface) VoicesReady() <-chan struct{} { return s.voicesReady }

// Options последний показанный список голосов.
func (s *Surface) Options() []voices.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]voices.Option(nil), s.options...)
}

func (s *Surface) SetVoiceOptions(opts []voices.Option) {
	s.mu.Lock()
	s.options = append([]voices.Option(nil), opts...)
	s.mu.Unlock()
	s.logger.Debugw("Voice options", "count", len(opts))
}

func (s *Surface) SetVoiceSelectEnabled(enabled bool) {
	s.logger.Debugw("Voice select", "enabled", enabled)
	if enabled {
		s.once.Do(func() { close(s.voicesReady) })
	}
}

func (s *Surface) SetSpeakEnabled(enabled bool) {
	s.logger.Debugw("Speak button", "enabled", enabled)
}

func (s *Surface) SetStopVisible(visible bool) {
	s.logger.Debugw("Stop button", "visible", visible)
}

func (s *Surface) SetStatus(st controller.Status) {
	if st.Text == "" {
		return
	}
	switch st.Severity {
	case controller.SeverityError:
		s.logger.Warnw("Status", "text", st.Text)
	default:
		s.logger.Infow("Status", "text", st.Text, "severity", string(st.Severity))
	}
	select {
	case s.statuses <- st:
	default:
		s.logger.Debugw("Status channel full, dropping", "text", st.Text)
	}
}

func (s *Surface) FocusText() {
	s.logger.Debugw("Focus text requested")
}
