package telegram

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/voice_relay/internal/ai"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// replyText — общий текстовый обработчик: и для обычного текста, и для распознанного голоса.
func (app *BotApp) replyText(ctx context.Context, in Incoming) error {
	app.log.Infow("[text] start", "chatID", in.ChatID)

	// === 0. показываем 'AI думает…' ===
	sentThinking, err := app.bot.Send(tgbotapi.NewMessage(in.ChatID, msgThinking))
	if err == nil {
		defer app.bot.Request(tgbotapi.NewDeleteMessage(in.ChatID, sentThinking.MessageID))
	}

	// === 1. GPT ===
	reply, err := app.AiService.GetReply(ctx, in.ChatID, in.Text)
	if err != nil {
		return errors.Wrap(err, "ai reply")
	}

	// === 2. отправляем ответ ===
	if _, err := app.bot.Send(tgbotapi.NewMessage(in.ChatID, reply)); err != nil {
		return errors.Wrap(err, "send reply")
	}

	app.log.Infow("[text] done", "chatID", in.ChatID)
	return nil
}

func (app *BotApp) handleText(ctx context.Context, in Incoming) {
	err := app.replyText(ctx, in)
	if err == nil {
		return
	}

	app.log.Errorw("[text] fail", "chatID", in.ChatID, "error", app.redact(fmt.Sprintf("%+v", err)))

	app.notify(
		ctx,
		err,
		fmt.Sprintf("❗ Ошибка GPT ответа\n\nЧат: %d\nТекст: %q\n\n%s", in.ChatID, in.Text, ai.DescribeError(err)),
	)

	app.reply(in.ChatID, msgTextError)
}
