package main

import (
	"TeluguTTS/internal/adapter/web"
	"TeluguTTS/internal/app/backend"
	"TeluguTTS/internal/app/controller"
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/tts"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errShutdown = errors.New("shutdown requested")

// Веб-студия: страница в браузере, синтез и воспроизведение на стороне сервера.
func main() {
	cfg := config.NewConfig()

	var (
		logger *zap.Logger
		err    error
	)
	if cfg.DebugMode {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	sugar.Infow("Starting app",
		"DebugMode", cfg.DebugMode,
		"TTSService", cfg.TTSService,
		"BindAddr", cfg.BindAddr,
	)

	// Graceful shutdown on Ctrl+C / SIGTERM
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		sugar.Infow("Signal received", "signal", sig.String())
		cancel(errShutdown)
	}()

	// Без бэкенда студия всё равно поднимается: контроллер блокирует кнопки и показывает статус
	var (
		provider tts.Provider
		engine   *tts.Engine
	)
	b, err := backend.Open(ctx, cfg, sugar)
	if err != nil {
		sugar.Errorw("Failed to open TTS backend", "error", err)
	} else {
		defer func() {
			if err := b.Close(); err != nil {
				sugar.Warnw("Failed to close TTS backend", "error", err)
			}
		}()
		engine = backend.NewEngine(b, cfg, sugar)
		provider = engine
	}

	hub := web.NewHub(web.HubOptions{
		MessagesPerSecond: cfg.WSMessagesPerSecond,
		Burst:             cfg.WSBurst,
	}, sugar)
	ctrl := controller.New(provider, hub, controller.Options{
		TargetPrefix:  cfg.TargetLanguage,
		DefaultLocale: cfg.DefaultLocale,
		StatusTTL:     cfg.StatusTTL,
	}, sugar)
	srv := web.NewServer(cfg.BindAddr, hub, ctrl, sugar)

	g, gctx := errgroup.WithContext(ctx)
	if engine != nil {
		g.Go(func() error { return engine.Run(gctx) })
	}
	g.Go(func() error { return ctrl.Run(gctx) })
	g.Go(func() error {
		if err := srv.Run(gctx); err != nil {
			return err
		}
		// сервер сам не завершается, только по отмене
		return context.Cause(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		sugar.Errorw("Stopped with error", "error", err)
		os.Exit(1)
	}
	sugar.Infow("Stopped")
}
