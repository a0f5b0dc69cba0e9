package telegram

import (
	"context"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/Vovarama1992/voice_relay/internal/ai"
	"github.com/Vovarama1992/voice_relay/internal/error_notificator"
	"github.com/Vovarama1992/voice_relay/internal/fetch"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type BotApp struct {
	AiService     ai.Service
	SpeechService Transcriber
	Downloader    fetch.Downloader
	ErrorNotify   error_notificator.Notificator

	bot     Bot
	secret  string
	tempDir string
	log     *zap.SugaredLogger
	wg      sync.WaitGroup
}

func NewBotApp(
	bot Bot,
	token string,
	aiService ai.Service,
	speechService Transcriber,
	downloader fetch.Downloader,
	errNotify error_notificator.Notificator,
	tempDir string,
	log *zap.SugaredLogger,
) *BotApp {
	return &BotApp{
		AiService:     aiService,
		SpeechService: speechService,
		Downloader:    downloader,
		ErrorNotify:   errNotify,
		bot:           bot,
		secret:        token,
		tempDir:       tempDir,
		log:           log,
	}
}

// Run — главный цикл получения апдейтов. Каждый апдейт обрабатывается в своей горутине.
// Возвращается после отмены ctx, дождавшись уже начатых обработчиков.
func (app *BotApp) Run(ctx context.Context, poller Poller, timeout int) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout

	updates := poller.GetUpdatesChan(u)
	app.log.Infow("[bot_loop] started", "timeout", timeout)

	go func() {
		<-ctx.Done()
		poller.StopReceivingUpdates()
	}()

	// начатая обработка доводится до конца даже при остановке
	handlerCtx := context.WithoutCancel(ctx)

	for update := range updates {
		app.wg.Add(1)
		go func(upd tgbotapi.Update) {
			defer app.wg.Done()
			defer app.recoverUpdate(upd.UpdateID)
			app.dispatchUpdate(handlerCtx, upd)
		}(update)
	}

	app.wg.Wait()
	app.log.Infow("[bot_loop] stopped")
}

func (app *BotApp) recoverUpdate(updateID int) {
	if r := recover(); r != nil {
		app.log.Errorw("[bot_loop] panic",
			"updateID", updateID,
			"panic", r,
			"stack", string(debug.Stack()),
		)
	}
}

// reply — отправка текста пользователю, ошибки только логируются.
func (app *BotApp) reply(chatID int64, text string) {
	if _, err := app.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		app.log.Warnw("[reply] send fail", "chatID", chatID, "error", app.redact(err.Error()))
	}
}

func (app *BotApp) notify(ctx context.Context, err error, details string) {
	if app.ErrorNotify == nil {
		return
	}
	if nErr := app.ErrorNotify.Notify(ctx, err, details); nErr != nil {
		app.log.Warnw("[notify] fail", "error", nErr)
	}
}

// redact прячет токен бота: он входит в URL скачивания файлов.
func (app *BotApp) redact(s string) string {
	if app.secret == "" {
		return s
	}
	return strings.ReplaceAll(s, app.secret, "***")
}
