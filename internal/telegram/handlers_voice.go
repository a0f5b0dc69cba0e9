package telegram

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/voice_relay/internal/ai"
	"github.com/Vovarama1992/voice_relay/internal/tempfile"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// handleVoice — граница ошибок голосового пайплайна: всё, что вернул processVoice,
// превращается в лог и ответ пользователю, наружу ничего не уходит.
func (app *BotApp) handleVoice(ctx context.Context, in Incoming) {
	err := app.processVoice(ctx, in)

	switch {
	case err == nil:
		app.log.Infow("[voice] done", "chatID", in.ChatID)

	case errors.Is(err, ErrNoAttachment):
		app.reply(in.ChatID, msgVoiceNotFound)

	case errors.Is(err, ErrTranscriptionEmpty):
		app.log.Infow("[voice] empty transcript", "chatID", in.ChatID)
		app.reply(in.ChatID, msgVoiceEmpty)

	default:
		desc := app.redact(err.Error())

		stage := Stage("")
		var pErr *PipelineError
		if errors.As(err, &pErr) {
			stage = pErr.Stage
		}

		app.log.Errorw("[voice] fail",
			"chatID", in.ChatID,
			"stage", stage,
			"error", app.redact(fmt.Sprintf("%+v", err)),
		)

		details := fmt.Sprintf("❗ Ошибка голосового\n\nЧат: %d\nШаг: %s", in.ChatID, stage)
		if stage == StageHandler {
			details += "\n\n" + ai.DescribeError(err)
		}

		app.notify(ctx, errors.New(desc), details)

		app.reply(in.ChatID, fmt.Sprintf(msgVoiceError, desc))
	}
}

// processVoice: файл → временный файл → STT → текстовый обработчик.
// Временный файл удаляется на любом выходе, включая панику.
func (app *BotApp) processVoice(ctx context.Context, in Incoming) (err error) {
	if in.Voice == nil || in.Voice.FileID == "" {
		return ErrNoAttachment
	}

	fileID := in.Voice.FileID
	app.log.Infow("[voice] start", "chatID", in.ChatID, "fileID", fileID, "duration", in.Voice.Duration)

	stage := StageDownload
	defer func() {
		if r := recover(); r != nil {
			err = newPipelineError(stage, fmt.Errorf("panic: %v", r))
		}
	}()

	tmp, err := tempfile.Acquire(app.tempDir, tempfile.VoiceExt)
	if err != nil {
		return newPipelineError(stage, err)
	}
	defer tmp.Release()

	url, err := app.bot.GetFileDirectURL(fileID)
	if err != nil {
		return newPipelineError(stage, errors.Wrap(err, "get file"))
	}

	size, err := app.Downloader.Download(ctx, url, tmp.Path())
	if err != nil {
		return newPipelineError(stage, err)
	}

	mime := "unknown"
	if mt, mErr := mimetype.DetectFile(tmp.Path()); mErr == nil {
		mime = mt.String()
	}
	app.log.Infow("[voice] saved", "chatID", in.ChatID, "size", humanize.Bytes(uint64(size)), "mime", mime)

	// голос -> текст
	stage = StageTranscription
	text, err := app.SpeechService.Transcribe(ctx, tmp.Path())
	if err != nil {
		return newPipelineError(stage, err)
	}
	if text == "" {
		return ErrTranscriptionEmpty
	}
	app.log.Infow("[voice] transcribed", "chatID", in.ChatID, "text", text)

	// дальше как обычный текст
	stage = StageHandler
	if err := app.replyText(ctx, in.WithText(text)); err != nil {
		return newPipelineError(stage, err)
	}

	return nil
}
