package main

import (
	"TeluguTTS/internal/app/backend"
	"TeluguTTS/internal/app/controller"
	"TeluguTTS/internal/config"
	"TeluguTTS/internal/service/voices"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Небольшая утилита: печатает каталог голосов выбранного сервиса в том же порядке,
// что и выпадающий список в веб-студии.
func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeoutCause(context.Background(), 20*time.Second, errors.New("voices request timeout"))
	defer cancel()

	b, err := backend.Open(ctx, cfg, sugar)
	if err != nil {
		fmt.Println("не удалось создать клиента TTS:", err)
		os.Exit(1)
	}
	defer b.Close()

	list, err := b.Lister.ListVoices(ctx)
	if err != nil {
		fmt.Println("не удалось получить список голосов:", err)
		os.Exit(1)
	}

	opts := voices.Build(list, cfg.TargetLanguage, controller.TeluguMessages().Auto)
	if cfg.DebugMode {
		out, _ := json.MarshalIndent(opts, "", "  ")
		fmt.Println(string(out))
		return
	}
	for _, o := range opts {
		if o.Disabled {
			fmt.Println(o.Label)
			continue
		}
		fmt.Printf("%-40s %s\n", o.Key, o.Label)
	}
	fmt.Printf("\nВсего голосов: %d\n", len(list))
}
