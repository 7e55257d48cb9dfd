package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
)

// stubRetrieval implements driving.RetrievalService.
type stubRetrieval struct {
	contexts []string
	err      error
	gotK     int
}

func (s *stubRetrieval) RetrieveContext(_ context.Context, _ string, k int) ([]string, error) {
	s.gotK = k
	if s.err != nil {
		return nil, s.err
	}
	return s.contexts, nil
}

func TestAsk_GroundsSystemPromptOnContext(t *testing.T) {
	retrieval := &stubRetrieval{contexts: []string{"I like green apples.", "I work on AI tools."}}
	llm := &mockLLM{reply: "You like green apples."}

	svc := NewChatService(retrieval, llm, nil, "Archivist", 5)

	answer, err := svc.Ask(context.Background(), "What food do I like?")
	require.NoError(t, err)
	assert.Equal(t, "You like green apples.", answer.Reply)
	assert.Equal(t, retrieval.contexts, answer.Context)
	assert.Equal(t, 5, retrieval.gotK)

	messages := llm.lastMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, driven.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "Archivist")
	assert.Contains(t, messages[0].Content, "- I like green apples.")
	assert.Contains(t, messages[0].Content, "- I work on AI tools.")
	assert.Equal(t, driven.RoleUser, messages[1].Role)
	assert.Equal(t, "What food do I like?", messages[1].Content)
}

func TestAsk_EmptyContextUsesFallbackPrompt(t *testing.T) {
	retrieval := &stubRetrieval{contexts: []string{}}
	llm := &mockLLM{reply: "hello"}

	svc := NewChatService(retrieval, llm, nil, "", 0)

	answer, err := svc.Ask(context.Background(), "Hi there")
	require.NoError(t, err)
	assert.Equal(t, "hello", answer.Reply)
	assert.Empty(t, answer.Context)

	messages := llm.lastMessages()
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Content, domain.DefaultPersona)
	assert.NotContains(t, messages[0].Content, "- ")
}

func TestAsk_RetrievalFailurePropagates(t *testing.T) {
	retrieval := &stubRetrieval{err: domain.ErrRetrievalFailed}
	llm := &mockLLM{reply: "unused"}

	svc := NewChatService(retrieval, llm, nil, "", 0)

	_, err := svc.Ask(context.Background(), "question")
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	assert.Nil(t, llm.lastMessages())
}

func TestAsk_LLMFailureSurfaced(t *testing.T) {
	retrieval := &stubRetrieval{contexts: []string{"fact"}}
	llm := &mockLLM{err: errors.New("rate limited")}

	svc := NewChatService(retrieval, llm, nil, "", 0)

	_, err := svc.Ask(context.Background(), "question")
	assert.ErrorContains(t, err, "generate reply")
}

func TestAsk_NilLLM(t *testing.T) {
	svc := NewChatService(&stubRetrieval{}, nil, nil, "", 0)

	_, err := svc.Ask(context.Background(), "question")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := NewChatService(&stubRetrieval{}, &mockLLM{}, nil, "", 0)

	_, err := svc.Ask(context.Background(), "  \t ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_RecordsTurnInHistory(t *testing.T) {
	retrieval := &stubRetrieval{contexts: []string{"a", "b", "c"}}
	llm := &mockLLM{reply: "an answer"}
	history := &mockHistory{}

	svc := NewChatService(retrieval, llm, history, "", 0)

	_, err := svc.Ask(context.Background(), "a question")
	require.NoError(t, err)

	turns := history.recorded()
	require.Len(t, turns, 1)
	assert.NotEmpty(t, turns[0].ID)
	assert.NotEmpty(t, turns[0].ConversationID)
	assert.Equal(t, "a question", turns[0].Question)
	assert.Equal(t, "an answer", turns[0].Answer)
	assert.Equal(t, 3, turns[0].ContextCount)
	assert.False(t, turns[0].CreatedAt.IsZero())
}

func TestAsk_HistoryFailureDoesNotAbortTurn(t *testing.T) {
	retrieval := &stubRetrieval{contexts: []string{"fact"}}
	llm := &mockLLM{reply: "fine"}
	history := &mockHistory{err: errors.New("database locked")}

	svc := NewChatService(retrieval, llm, history, "", 0)

	answer, err := svc.Ask(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "fine", answer.Reply)
}

// stubPrompts implements driven.PromptStore.
type stubPrompts struct {
	prompts map[string]string
}

func (s *stubPrompts) Load(name string) (string, error) {
	p, ok := s.prompts[name]
	if !ok {
		return "", errors.New("not found")
	}
	return p, nil
}

func (s *stubPrompts) Reload() {}

func TestAsk_CustomPromptTemplate(t *testing.T) {
	retrieval := &stubRetrieval{contexts: []string{"likes tea"}}
	llm := &mockLLM{reply: "ok"}

	svc := NewChatService(retrieval, llm, nil, "Marvin", 0)
	svc.SetPromptStore(&stubPrompts{prompts: map[string]string{
		driven.PromptChatSystem: "PERSONA=%s CONTEXT=%s",
	}})

	_, err := svc.Ask(context.Background(), "question")
	require.NoError(t, err)

	system := llm.lastMessages()[0].Content
	assert.True(t, strings.HasPrefix(system, "PERSONA=Marvin"))
	assert.Contains(t, system, "likes tea")
}
