package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot — часть *tgbotapi.BotAPI, нужная обработчикам.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Poller — long polling поверх Bot.
type Poller interface {
	Bot
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Transcriber interface {
	// Transcribe возвращает нормализованный текст; "" — речь не распознана.
	Transcribe(ctx context.Context, filePath string) (string, error)
}
