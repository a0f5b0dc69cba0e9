package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var ErrEmptyCompletion = errors.New("empty completion")

const replyLimit = `
Ограничение: ответ не должен превышать 3000 символов.
Пиши кратко, структурировано.`

type AiService struct {
	client       ChatCompleter
	systemPrompt string
	log          *zap.SugaredLogger
}

func NewAiService(client ChatCompleter, systemPrompt string, log *zap.SugaredLogger) *AiService {
	return &AiService{
		client:       client,
		systemPrompt: strings.TrimSpace(systemPrompt),
		log:          log,
	}
}

func (s *AiService) GetReply(ctx context.Context, chatID int64, userText string) (string, error) {
	start := time.Now()
	s.log.Infow("[ai] start", "chatID", chatID, "chars", len([]rune(userText)))

	prompt := s.systemPrompt
	if prompt == "" {
		prompt = "Ты дружелюбный логичный ассистент."
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompt + "\n" + replyLimit},
		{Role: openai.ChatMessageRoleUser, Content: userText},
	}

	reply, err := s.client.GetCompletion(ctx, messages)
	if err != nil {
		s.log.Errorw("[ai] completion fail", "chatID", chatID, "error", err, "hint", DescribeError(err))
		return "", pkgerrors.Wrap(err, "chat completion")
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", pkgerrors.WithStack(ErrEmptyCompletion)
	}

	s.log.Infow("[ai] done", "chatID", chatID, "took", time.Since(start))
	return reply, nil
}

// DescribeError — человекочитаемая диагностика ошибок OpenAI.
func DescribeError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return describeStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return describeStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}

	if err == nil {
		return ""
	}
	return "Неизвестная ошибка OpenAI: " + err.Error()
}

func describeStatus(code int, msg string) string {
	switch {
	case code == http.StatusUnauthorized:
		return "Неверный API-ключ OpenAI."
	case code == http.StatusNotFound:
		return "Модель не найдена."
	case code == http.StatusTooManyRequests:
		return "Превышен лимит OpenAI."
	case code == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "model"):
		return "Неверно указана модель."
	case code == http.StatusBadRequest:
		return "Некорректный запрос к OpenAI."
	case code >= 500:
		return "Внутренняя ошибка OpenAI."
	}
	return "Неизвестная ошибка OpenAI: " + msg
}
