package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

type Service interface {
	// GetReply получает ответ модели на текст пользователя.
	GetReply(ctx context.Context, chatID int64, userText string) (string, error)
}

type ChatCompleter interface {
	GetCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}
