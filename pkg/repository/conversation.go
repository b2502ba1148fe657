package repository

import (
	"sync"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

type conversation struct {
	// turn serializes read-context → record spans of one user.
	turn     sync.Mutex
	messages []domain.Message
}

// ConversationRepository keeps a bounded in-memory history per user.
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations map[int64]*conversation
	maxMessages   int
}

func NewConversationRepository(maxMessages int) *ConversationRepository {
	if maxMessages <= 0 {
		maxMessages = domain.DefaultMaxHistoryMessages
	}
	return &ConversationRepository{
		conversations: make(map[int64]*conversation),
		maxMessages:   maxMessages,
	}
}

func (r *ConversationRepository) MaxMessages() int {
	return r.maxMessages
}

// Lock blocks until no other turn of the user is in progress.
func (r *ConversationRepository) Lock(userID int64) (unlock func()) {
	conv := r.getOrCreate(userID)
	conv.turn.Lock()
	return conv.turn.Unlock
}

// Context returns a copy of the newest messages of the user, oldest first.
func (r *ConversationRepository) Context(userID int64) []domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[userID]
	if !ok {
		return []domain.Message{}
	}

	return newest(conv.messages, r.maxMessages)
}

// Record appends a question/answer pair and evicts the oldest messages above the limit.
func (r *ConversationRepository) Record(userID int64, question, answer string) {
	conv := r.getOrCreate(userID)

	r.mu.Lock()
	defer r.mu.Unlock()

	messages := append(conv.messages,
		domain.Message{Role: domain.RoleUser, Content: question},
		domain.Message{Role: domain.RoleAssistant, Content: answer},
	)
	conv.messages = newest(messages, r.maxMessages)
}

// Clear drops the history of the user and reports whether it was already empty.
// It waits for an in-flight turn of the user to record its answer first.
func (r *ConversationRepository) Clear(userID int64) (wasEmpty bool) {
	r.mu.RLock()
	conv, ok := r.conversations[userID]
	r.mu.RUnlock()
	if !ok {
		return true
	}

	conv.turn.Lock()
	defer conv.turn.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(conv.messages) == 0 {
		return true
	}

	conv.messages = nil
	return false
}

func (r *ConversationRepository) getOrCreate(userID int64) *conversation {
	r.mu.RLock()
	conv, ok := r.conversations[userID]
	r.mu.RUnlock()
	if ok {
		return conv
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.conversations[userID]; ok {
		return conv
	}

	conv = &conversation{}
	r.conversations[userID] = conv
	return conv
}

func newest(messages []domain.Message, limit int) []domain.Message {
	start := 0
	if len(messages) > limit {
		start = len(messages) - limit
	}

	result := make([]domain.Message, len(messages)-start)
	copy(result, messages[start:])
	return result
}
