package models

const (
	TaskStatusPending   = "pending"
	TaskStatusRetry     = "retry"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

const (
	// DefaultMaxAdvanceDays ограничивает горизонт бронирования вперёд
	DefaultMaxAdvanceDays = 365

	// DefaultCacheTTL время жизни кэша поисковой выдачи
	DefaultCacheTTL = 30 * 60 // 30 минут в секундах

	// WorkerQueueSize размер очереди воркера уведомлений
	WorkerQueueSize = 1000

	// RateLimitRequests количество запросов в окне по умолчанию
	RateLimitRequests = 20

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах
)
