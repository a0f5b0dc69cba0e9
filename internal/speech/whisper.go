package speech

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

type WhisperClient struct {
	client *openai.Client
	model  string
}

func NewWhisperClient(client *openai.Client, model string) *WhisperClient {
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperClient{client: client, model: model}
}

// Transcribe отправляет файл в Whisper и просит ответ в виде plain text.
func (c *WhisperClient) Transcribe(ctx context.Context, filePath string) (any, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "open audio file")
	}
	defer f.Close()

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filepath.Base(filePath),
		Reader:   f,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return nil, errors.Wrap(err, "whisper request")
	}

	return resp.Text, nil
}
