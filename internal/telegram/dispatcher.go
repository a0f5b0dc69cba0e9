package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (app *BotApp) dispatchUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}

	in := newIncoming(upd.Message)
	if in.ChatID == 0 {
		return
	}

	app.log.Debugw("[bot_touch]", "updateID", upd.UpdateID, "chatID", in.ChatID, "fromID", in.FromID)
	app.handleMessage(ctx, in)
}

func (app *BotApp) handleMessage(ctx context.Context, in Incoming) {
	switch {
	case in.Voice != nil:
		app.handleVoice(ctx, in)
	case in.Command != "":
		app.handleCommand(ctx, in)
	case strings.TrimSpace(in.Text) != "":
		app.handleText(ctx, in)
	default:
		// стикеры, фото и прочее: ответит "голосовое не найдено"
		app.handleVoice(ctx, in)
	}
}

func (app *BotApp) handleCommand(ctx context.Context, in Incoming) {
	switch in.Command {
	case "start", "help":
		app.reply(in.ChatID, msgGreeting)
	default:
		app.handleText(ctx, in)
	}
}
