package domain

import "fmt"

const (
	WelcomeText = "👋 Привет! Я бот с интеграцией GigaChat AI.\n\n" +
		"Задай мне любой вопрос, и я постараюсь на него ответить!\n\n" +
		"Используй /help для справки."

	HistoryClearedText = "✅ История сообщений очищена!"
	HistoryEmptyText   = "ℹ️ История сообщений пуста."
	UnauthorizedText   = "❌ Доступ запрещён"
	DeliveryFailedText = "Не удалось доставить ответ"

	CaptionTruncatedMarker = "\n\n... (сообщение обрезано)"

	NoAccessAnswer         = "❌ Не удалось получить доступ к GigaChat API. Проверьте настройки."
	RequestFailedAnswer    = "❌ Произошла ошибка при обращении к GigaChat API. Попробуйте позже."
	UnexpectedFormatAnswer = "❌ Неожиданный формат ответа от GigaChat API"
)

func HelpText(maxHistoryMessages int) string {
	return fmt.Sprintf("📖 Доступные команды:\n\n"+
		"/start - Начать работу с ботом\n"+
		"/help - Показать эту справку\n"+
		"/clear - Очистить историю сообщений\n\n"+
		"💼 Я менеджер по продажам офисной техники. Могу помочь:\n"+
		"• Подобрать подходящую технику\n"+
		"• Рассказать о характеристиках\n"+
		"• Ответить на вопросы о ценах и условиях\n"+
		"• Показать визуализацию техники\n\n"+
		"📝 Я помню до %d последних сообщений для контекста.", maxHistoryMessages)
}

func QuestionTooLongText(length int) string {
	return fmt.Sprintf("❌ Ваше сообщение слишком длинное (%d символов).\n"+
		"Максимальная длина запроса: %d символов.\n"+
		"Пожалуйста, сократите ваш вопрос.", length, MaxQuestionLength)
}

// IsDegradedAnswer reports whether answer is one of the fixed texts used
// instead of a model answer.
func IsDegradedAnswer(answer string) bool {
	switch answer {
	case NoAccessAnswer, RequestFailedAnswer, UnexpectedFormatAnswer:
		return true
	default:
		return false
	}
}
