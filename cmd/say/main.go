package main

import (
	"TeluguTTS/internal/adapter/console"
	"TeluguTTS/internal/app/backend"
	"TeluguTTS/internal/app/controller"
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/voices"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Утилита: озвучивает -text выбранным голосом через тот же контроллер, что и веб-студия,
// и завершается после окончания речи или ошибки.
func main() {
	var (
		text    string
		voice   string
		timeout time.Duration
	)
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.StringVar(&text, "text", "నమస్కారం! ఇది తెలుగు టెక్స్ట్-టు-స్పీచ్ పరీక్ష.", "текст для озвучивания")
	fs.StringVar(&voice, "voice", voices.AutoKey, "идентификатор голоса или auto")
	fs.DurationVar(&timeout, "timeout", 2*time.Minute, "максимальное время работы")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Println("Ошибка конфигурации:", err)
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeoutCause(ctx, timeout, errors.New("say timeout"))
	defer cancel()

	if err := run(ctx, cfg, text, voice, sugar); err != nil {
		fmt.Println("Ошибка:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, text, voice string, logger *zap.SugaredLogger) error {
	b, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	engine := backend.NewEngine(b, cfg, logger)
	ui := console.New(logger)
	msgs := controller.TeluguMessages()
	ctrl := controller.New(engine, ui, controller.Options{
		TargetPrefix:  cfg.TargetLanguage,
		DefaultLocale: cfg.DefaultLocale,
		StatusTTL:     cfg.StatusTTL,
		Messages:      msgs,
	}, logger)

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()
	go func() { _ = engine.Run(runCtx) }()
	go func() { _ = ctrl.Run(runCtx) }()

	// Ждём готовности интерфейса, а для конкретного голоса ещё и каталога
	if err := waitFor(ctx, ui, func(st controller.Status) bool { return st.Text == msgs.Ready }); err != nil {
		return err
	}
	if voice != "" && voice != voices.AutoKey {
		select {
		case <-ui.VoicesReady():
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}

	ctrl.Speak(text, voice)

	var final controller.Status
	err = waitFor(ctx, ui, func(st controller.Status) bool {
		final = st
		return st.Severity == controller.SeveritySuccess || st.Severity == controller.SeverityError
	})
	if err != nil {
		// сигнал или таймаут: речь обрывается вместе с engine.Run
		return err
	}
	fmt.Println(final.Text)
	if final.Severity == controller.SeverityError {
		return errors.New(final.Text)
	}
	return nil
}

func waitFor(ctx context.Context, ui *console.Surface, match func(controller.Status) bool) error {
	for {
		select {
		case st := <-ui.Statuses():
			if match(st) {
				return nil
			}
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
}
