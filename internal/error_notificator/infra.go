package error_notificator

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Infra struct {
	bot         Sender
	adminChatID int64
}

// NewInfra — adminChatID == 0 отключает уведомления.
func NewInfra(bot Sender, adminChatID int64) *Infra {
	return &Infra{bot: bot, adminChatID: adminChatID}
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	if i.adminChatID == 0 || i.bot == nil {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в боте\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	if _, sendErr := i.bot.Send(tgbotapi.NewMessage(i.adminChatID, text)); sendErr != nil {
		return fmt.Errorf("notify admin: %w", sendErr)
	}

	return nil
}
