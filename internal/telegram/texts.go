package telegram

const (
	msgGreeting = "Привет! Я — твой AI-ассистент 🤖\n\n" +
		"Напиши вопрос текстом или пришли голосовое — я распознаю речь и отвечу."
	msgThinking      = "🤖 AI думает…"
	msgTextError     = "⚠️ Ошибка при обработке запроса."
	msgVoiceNotFound = "Голосовое сообщение не найдено."
	msgVoiceEmpty    = "Не смог распознать речь. Попробуй записать голосовое ещё раз."
	msgVoiceError    = "⚠️ Ошибка при обработке голосового: %s"
)
