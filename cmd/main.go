package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/voice_relay/internal/ai"
	"github.com/Vovarama1992/voice_relay/internal/config"
	"github.com/Vovarama1992/voice_relay/internal/error_notificator"
	"github.com/Vovarama1992/voice_relay/internal/fetch"
	"github.com/Vovarama1992/voice_relay/internal/keepalive"
	"github.com/Vovarama1992/voice_relay/internal/speech"
	"github.com/Vovarama1992/voice_relay/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	if cfg.Debug {
		baseLogger, _ = zap.NewDevelopment()
	}
	defer baseLogger.Sync()
	sugar := baseLogger.Sugar()
	zl := logger.NewZapLogger(sugar)

	if cfg.OpenAIKey == "" {
		sugar.Warnw("OPENAI_API_KEY is not set, replies will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// TELEGRAM
	// =========================================================================

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}
	bot.Debug = cfg.Debug
	sugar.Infow("[bot_app] ready", "username", "@"+bot.Self.UserName)

	// =========================================================================
	// CLIENTS (AI / STT)
	// =========================================================================

	openAIRaw := ai.NewOpenAIRaw(cfg.OpenAIKey, cfg.OpenAIBaseURL)

	var stt speech.STTClient
	switch cfg.STTProvider {
	case config.STTDeepgram:
		stt = speech.NewDeepgramClient(cfg.DeepgramKey, cfg.DeepgramBaseURL, cfg.DeepgramLanguage)
	default:
		stt = speech.NewWhisperClient(openAIRaw, cfg.WhisperModel)
	}

	// =========================================================================
	// SERVICES
	// =========================================================================

	errService := error_notificator.NewService(
		error_notificator.NewInfra(bot, cfg.AdminChatID),
	)

	speechService := speech.NewService(stt)
	aiService := ai.NewAiService(
		ai.NewOpenAIClient(openAIRaw, cfg.ChatModel),
		cfg.SystemPrompt,
		sugar,
	)

	botApp := telegram.NewBotApp(
		bot,
		cfg.TelegramToken,
		aiService,
		speechService,
		fetch.NewGrabDownloader(),
		errService,
		cfg.TempDir,
		sugar,
	)

	// =========================================================================
	// KEEP-ALIVE
	// =========================================================================

	keepAliveDone := keepalive.NewServer(":"+cfg.Port, cfg.ShutdownTimeout, zl).Supervise(ctx)

	// =========================================================================
	// EVENT LOOP
	// =========================================================================

	botApp.Run(ctx, bot, cfg.UpdateTimeout)

	<-keepAliveDone
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "shutdown complete",
		Service: "voice_relay",
	})
}
