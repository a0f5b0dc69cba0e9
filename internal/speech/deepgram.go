package speech

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const defaultDeepgramURL = "https://api.deepgram.com"

type DeepgramClient struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
}

func NewDeepgramClient(apiKey, baseURL, language string) *DeepgramClient {
	if baseURL == "" {
		baseURL = defaultDeepgramURL
	}
	if language == "" {
		language = "ru"
	}

	return &DeepgramClient{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		client:   &http.Client{},
	}
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (c *DeepgramClient) Transcribe(ctx context.Context, filePath string) (any, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "read audio file")
	}

	q := url.Values{}
	q.Set("model", "nova-2")
	q.Set("smart_format", "true")
	q.Set("language", c.language)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/listen?"+q.Encode(),
		bytes.NewReader(data),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", audioContentType(data))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "deepgram request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read deepgram response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("deepgram error %d: %s", resp.StatusCode, body)
	}

	var parsed deepgramResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "decode deepgram")
	}

	// нет каналов = тишина, а не ошибка
	if len(parsed.Results.Channels) == 0 ||
		len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}

	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}

// audioContentType определяет контейнер по содержимому; Telegram-голосовые — ogg.
func audioContentType(data []byte) string {
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "audio/") || strings.HasPrefix(mt.String(), "video/") {
		return mt.String()
	}
	return "audio/ogg"
}
