package services

import (
	"context"
	"sync"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

type fakeMessenger struct {
	mu        sync.Mutex
	responses []domain.Response
	actions   []domain.ChatAction
}

func (f *fakeMessenger) SendResponse(_ context.Context, response *domain.Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, *response)
}

func (f *fakeMessenger) SendChatAction(_ context.Context, _ int64, action domain.ChatAction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

type completeCall struct {
	question string
	history  []domain.Message
}

type fakeAnswers struct {
	answer string
	calls  []completeCall
}

func (f *fakeAnswers) Complete(_ context.Context, question string, history []domain.Message) string {
	f.calls = append(f.calls, completeCall{question: question, history: history})
	return f.answer
}

type fakeImagePrompts struct {
	prompt string
	ok     bool
	calls  []completeCall
}

func (f *fakeImagePrompts) DerivePrompt(_ context.Context, question string, history []domain.Message) (string, bool) {
	f.calls = append(f.calls, completeCall{question: question, history: history})
	return f.prompt, f.ok
}

type fakeImages struct {
	enabled bool
	data    []byte
	prompts []string
}

func (f *fakeImages) Enabled() bool { return f.enabled }

func (f *fakeImages) Render(_ context.Context, prompt string) []byte {
	f.prompts = append(f.prompts, prompt)
	return f.data
}

type fakeClearer struct {
	wasEmpty bool
	cleared  []int64
}

func (f *fakeClearer) Clear(userID int64) bool {
	f.cleared = append(f.cleared, userID)
	return f.wasEmpty
}
