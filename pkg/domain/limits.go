package domain

const (
	DefaultMaxHistoryMessages = 10
	MaxQuestionLength         = 1000
	MaxCaptionLength          = 1024
)
