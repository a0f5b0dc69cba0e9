package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	STTWhisper  = "whisper"
	STTDeepgram = "deepgram"
)

var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

type Config struct {
	TelegramToken string
	UpdateTimeout int
	AdminChatID   int64
	Debug         bool

	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	SystemPrompt  string

	STTProvider      string
	WhisperModel     string
	DeepgramKey      string
	DeepgramLanguage string
	DeepgramBaseURL  string

	Port            string
	TempDir         string
	ShutdownTimeout time.Duration
}

const defaultSystemPrompt = "Ты дружелюбный логичный ассистент. Отвечай кратко и по делу."

// Load читает конфиг из окружения; getenv обычно os.Getenv.
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken:    strings.TrimSpace(getenv("TELEGRAM_BOT_TOKEN")),
		OpenAIKey:        getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getenv("OPENAI_BASE_URL"),
		ChatModel:        withDefault(getenv("OPENAI_MODEL"), "gpt-4o-mini"),
		SystemPrompt:     withDefault(getenv("SYSTEM_PROMPT"), defaultSystemPrompt),
		STTProvider:      strings.ToLower(withDefault(getenv("STT_PROVIDER"), STTWhisper)),
		WhisperModel:     withDefault(getenv("WHISPER_MODEL"), "whisper-1"),
		DeepgramKey:      getenv("DEEPGRAM_API_KEY"),
		DeepgramLanguage: withDefault(getenv("DEEPGRAM_LANGUAGE"), "ru"),
		DeepgramBaseURL:  withDefault(getenv("DEEPGRAM_BASE_URL"), "https://api.deepgram.com"),
		Port:             withDefault(getenv("PORT"), "8080"),
		TempDir:          withDefault(getenv("TEMP_DIR"), os.TempDir()),
		UpdateTimeout:    30,
		ShutdownTimeout:  5 * time.Second,
	}

	if cfg.TelegramToken == "" {
		return nil, ErrMissingToken
	}

	if v := getenv("UPDATE_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errors.Errorf("invalid UPDATE_TIMEOUT %q", v)
		}
		cfg.UpdateTimeout = n
	}

	if v := getenv("ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ADMIN_CHAT_ID %q", v)
		}
		cfg.AdminChatID = id
	}

	if v := getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid DEBUG %q", v)
		}
		cfg.Debug = b
	}

	switch cfg.STTProvider {
	case STTWhisper:
	case STTDeepgram:
		if cfg.DeepgramKey == "" {
			return nil, errors.New("DEEPGRAM_API_KEY is not set")
		}
	default:
		return nil, errors.Errorf("unknown STT_PROVIDER %q", cfg.STTProvider)
	}

	return cfg, nil
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
