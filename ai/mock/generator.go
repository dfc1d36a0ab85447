package mock

import (
	"context"
	"fmt"
)

// MockAnswerGenerator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via function fields.
type MockAnswerGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, uses default canned behavior.
	GenerateAnswerFunc func(ctx context.Context, question string, contexts []string) (string, error)

	callCount int
}

// NewMockAnswerGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnswerGenerator() *MockAnswerGenerator {
	return &MockAnswerGenerator{}
}

// GenerateAnswer returns a canned answer naming the question and the
// number of supplied contexts.
func (m *MockAnswerGenerator) GenerateAnswer(ctx context.Context, question string, contexts []string) (string, error) {
	m.callCount++

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, question, contexts)
	}

	return fmt.Sprintf("回答「%s」：共 %d 筆課程資料。", question, len(contexts)), nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockAnswerGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerGenerator) Reset() {
	m.callCount = 0
	m.GenerateAnswerFunc = nil
}
