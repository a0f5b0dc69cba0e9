package speech

import (
	"context"

	"github.com/pkg/errors"
)

// === Интерфейсы ===

type STTClient interface {
	// Transcribe возвращает сырой ответ сервиса распознавания.
	Transcribe(ctx context.Context, filePath string) (any, error)
}

// === Сервис: голос → текст ===

type Service struct {
	stt STTClient
}

func NewService(stt STTClient) *Service {
	return &Service{stt: stt}
}

// Transcribe — одна попытка, без ретраев. Пустая строка означает, что речь не распознана.
func (s *Service) Transcribe(ctx context.Context, filePath string) (string, error) {
	raw, err := s.stt.Transcribe(ctx, filePath)
	if err != nil {
		return "", errors.Wrap(err, "transcribe")
	}
	return Normalize(raw), nil
}
