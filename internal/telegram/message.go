package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

type VoiceRef struct {
	FileID   string
	Duration int
	MimeType string
	FileSize int64
}

// Incoming — входящее сообщение как значение. Обработчики его не мутируют:
// распознанный текст передаётся дальше через WithText.
type Incoming struct {
	ChatID    int64
	MessageID int
	FromID    int64
	Text      string
	Command   string
	Voice     *VoiceRef
}

func (in Incoming) WithText(text string) Incoming {
	in.Text = text
	return in
}

func newIncoming(msg *tgbotapi.Message) Incoming {
	in := Incoming{
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}

	if msg.Chat != nil {
		in.ChatID = msg.Chat.ID
	}
	if msg.From != nil {
		in.FromID = msg.From.ID
	}
	if msg.IsCommand() {
		in.Command = msg.Command()
	}

	switch {
	case msg.Voice != nil:
		in.Voice = &VoiceRef{
			FileID:   msg.Voice.FileID,
			Duration: msg.Voice.Duration,
			MimeType: msg.Voice.MimeType,
			FileSize: int64(msg.Voice.FileSize),
		}
	case msg.Audio != nil:
		in.Voice = &VoiceRef{
			FileID:   msg.Audio.FileID,
			Duration: msg.Audio.Duration,
			MimeType: msg.Audio.MimeType,
			FileSize: int64(msg.Audio.FileSize),
		}
	}

	return in
}
