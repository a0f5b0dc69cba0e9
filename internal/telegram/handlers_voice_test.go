package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testToken = "123456:SECRET"

type fakeBot struct {
	mu       sync.Mutex
	texts    []string
	deleted  int
	nextID   int
	fileURL  string
	fileErr  error
	urlCalls int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		b.texts = append(b.texts, m.Text)
	}
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := c.(tgbotapi.DeleteMessageConfig); ok {
		b.deleted++
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetFileDirectURL(fileID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.urlCalls++
	if b.fileErr != nil {
		return "", b.fileErr
	}
	if b.fileURL != "" {
		return b.fileURL, nil
	}
	return "https://api.telegram.org/file/bot" + testToken + "/voice/" + fileID + ".oga", nil
}

func (b *fakeBot) sentTexts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.texts...)
}

type fakeDownloader struct {
	payload []byte
	err     error
	paths   []string
}

func (d *fakeDownloader) Download(_ context.Context, _ string, dst string) (int64, error) {
	d.paths = append(d.paths, dst)
	if d.err != nil {
		return 0, d.err
	}
	if err := os.WriteFile(dst, d.payload, 0o600); err != nil {
		return 0, err
	}
	return int64(len(d.payload)), nil
}

type fakeTranscriber struct {
	text       string
	err        error
	panicWith  any
	calls      int
	fileExists bool
}

func (f *fakeTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	f.calls++
	_, statErr := os.Stat(path)
	f.fileExists = statErr == nil
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.text, f.err
}

type fakeAI struct {
	mu    sync.Mutex
	reply string
	err   error
	got   []string
}

func (f *fakeAI) GetReply(_ context.Context, _ int64, userText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, userText)
	return f.reply, f.err
}

type fakeNotifier struct {
	errs    []error
	details []string
	sendErr error
}

func (n *fakeNotifier) Notify(_ context.Context, err error, details string) error {
	n.errs = append(n.errs, err)
	n.details = append(n.details, details)
	return n.sendErr
}

type harness struct {
	app    *BotApp
	bot    *fakeBot
	dl     *fakeDownloader
	stt    *fakeTranscriber
	ai     *fakeAI
	notify *fakeNotifier
	logs   *observer.ObservedLogs
	dir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		bot:    &fakeBot{},
		dl:     &fakeDownloader{payload: []byte("OggS\x00voice")},
		stt:    &fakeTranscriber{},
		ai:     &fakeAI{reply: "ответ модели"},
		notify: &fakeNotifier{},
		dir:    t.TempDir(),
	}
	core, logs := observer.New(zapcore.DebugLevel)
	h.logs = logs
	h.app = NewBotApp(h.bot, testToken, h.ai, h.stt, h.dl, h.notify, h.dir, zap.New(core).Sugar())
	return h
}

func (h *harness) errorEntries() []observer.LoggedEntry {
	var out []observer.LoggedEntry
	for _, e := range h.logs.All() {
		if e.Level >= zapcore.ErrorLevel {
			out = append(out, e)
		}
	}
	return out
}

// assertVoiceFailLogged — ровно одна error-запись с шагом и стеком.
func (h *harness) assertVoiceFailLogged(t *testing.T, stage Stage) {
	t.Helper()
	entries := h.errorEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "[voice] fail", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, string(stage), fmt.Sprint(fields["stage"]))

	errText, ok := fields["error"].(string)
	require.True(t, ok)
	assert.Contains(t, errText, "processVoice")
	assert.NotContains(t, errText, testToken)
}

func voiceMsg() Incoming {
	return Incoming{
		ChatID:    100,
		MessageID: 7,
		Voice:     &VoiceRef{FileID: "voice-1", Duration: 3},
	}
}

func (h *harness) assertTempCleaned(t *testing.T) {
	t.Helper()
	for _, p := range h.dl.paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "temp file left behind: %s", p)
	}
	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleVoice_NoAttachment(t *testing.T) {
	h := newHarness(t)

	h.app.handleVoice(context.Background(), Incoming{ChatID: 100, Text: "просто текст"})

	assert.Equal(t, []string{msgVoiceNotFound}, h.bot.sentTexts())
	assert.Zero(t, h.bot.urlCalls)
	assert.Empty(t, h.dl.paths)
	assert.Zero(t, h.stt.calls)
	assert.Empty(t, h.notify.errs)
	assert.Empty(t, h.errorEntries())
}

func TestHandleVoice_Success(t *testing.T) {
	h := newHarness(t)
	h.stt.text = "hello there"

	in := voiceMsg()
	h.app.handleVoice(context.Background(), in)

	assert.True(t, h.stt.fileExists)
	assert.Equal(t, []string{"hello there"}, h.ai.got)
	assert.Equal(t, []string{msgThinking, "ответ модели"}, h.bot.sentTexts())
	assert.Equal(t, 1, h.bot.deleted)
	assert.Empty(t, in.Text)
	assert.Empty(t, h.notify.errs)
	assert.Empty(t, h.errorEntries())
	h.assertTempCleaned(t)
}

func TestHandleVoice_EmptyTranscript(t *testing.T) {
	h := newHarness(t)
	h.stt.text = ""

	h.app.handleVoice(context.Background(), voiceMsg())

	assert.Equal(t, []string{msgVoiceEmpty}, h.bot.sentTexts())
	assert.Empty(t, h.ai.got)
	assert.Empty(t, h.notify.errs)
	h.assertTempCleaned(t)
}

func TestHandleVoice_TranscriptionFailure(t *testing.T) {
	h := newHarness(t)
	h.stt.err = errors.New("network is unreachable")

	assert.NotPanics(t, func() {
		h.app.handleVoice(context.Background(), voiceMsg())
	})

	sent := h.bot.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "network is unreachable")
	assert.Empty(t, h.ai.got)
	assert.Len(t, h.notify.errs, 1)
	h.assertVoiceFailLogged(t, StageTranscription)
	h.assertTempCleaned(t)
}

func TestHandleVoice_DownloadFailure(t *testing.T) {
	h := newHarness(t)
	h.dl.err = errors.New("connection reset by peer")

	h.app.handleVoice(context.Background(), voiceMsg())

	sent := h.bot.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "connection reset by peer")
	assert.Zero(t, h.stt.calls)
	h.assertVoiceFailLogged(t, StageDownload)
	h.assertTempCleaned(t)
}

func TestHandleVoice_GetFileFailure(t *testing.T) {
	h := newHarness(t)
	h.bot.fileErr = errors.New("Bad Request: file is too big")

	h.app.handleVoice(context.Background(), voiceMsg())

	sent := h.bot.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "file is too big")
	assert.Empty(t, h.dl.paths)
	assert.Zero(t, h.stt.calls)

	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleVoice_HandlerFailure(t *testing.T) {
	h := newHarness(t)
	h.stt.text = "hello there"
	h.ai.err = errors.New("rate limited")

	h.app.handleVoice(context.Background(), voiceMsg())

	sent := h.bot.sentTexts()
	require.Len(t, sent, 2)
	assert.Equal(t, msgThinking, sent[0])
	assert.Contains(t, sent[1], "rate limited")
	assert.Equal(t, 1, h.bot.deleted)
	require.Len(t, h.notify.errs, 1)
	assert.Contains(t, h.notify.details[0], "Неизвестная ошибка OpenAI: ")
	h.assertVoiceFailLogged(t, StageHandler)
	h.assertTempCleaned(t)
}

func TestHandleVoice_PanicIsAbsorbed(t *testing.T) {
	h := newHarness(t)
	h.stt.panicWith = "codec exploded"

	assert.NotPanics(t, func() {
		h.app.handleVoice(context.Background(), voiceMsg())
	})

	sent := h.bot.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "codec exploded")
	h.assertVoiceFailLogged(t, StageTranscription)
	h.assertTempCleaned(t)
}

func TestHandleVoice_TokenNotLeaked(t *testing.T) {
	h := newHarness(t)
	h.dl.err = errors.New(`Get "https://api.telegram.org/file/bot` + testToken + `/voice.oga": EOF`)

	h.app.handleVoice(context.Background(), voiceMsg())

	sent := h.bot.sentTexts()
	require.Len(t, sent, 1)
	assert.NotContains(t, sent[0], testToken)
	for _, err := range h.notify.errs {
		assert.NotContains(t, err.Error(), testToken)
	}
	h.assertVoiceFailLogged(t, StageDownload)
}

func TestHandleVoice_NotifyFailureLogged(t *testing.T) {
	h := newHarness(t)
	h.stt.err = errors.New("network is unreachable")
	h.notify.sendErr = errors.New("telegram 502")

	h.app.handleVoice(context.Background(), voiceMsg())

	warns := h.logs.FilterMessage("[notify] fail").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	assert.Len(t, h.bot.sentTexts(), 1)
}

func TestProcessVoice_Stages(t *testing.T) {
	cases := []struct {
		name  string
		setup func(h *harness)
		stage Stage
	}{
		{"download", func(h *harness) { h.dl.err = errors.New("x") }, StageDownload},
		{"transcription", func(h *harness) { h.stt.err = errors.New("x") }, StageTranscription},
		{"handler", func(h *harness) { h.stt.text = "hi"; h.ai.err = errors.New("x") }, StageHandler},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			tc.setup(h)

			err := h.app.processVoice(context.Background(), voiceMsg())

			var pErr *PipelineError
			require.True(t, errors.As(err, &pErr))
			assert.Equal(t, tc.stage, pErr.Stage)
		})
	}

	h := newHarness(t)
	assert.True(t, errors.Is(h.app.processVoice(context.Background(), Incoming{ChatID: 1}), ErrNoAttachment))

	h.stt.text = ""
	assert.True(t, errors.Is(h.app.processVoice(context.Background(), voiceMsg()), ErrTranscriptionEmpty))
}
