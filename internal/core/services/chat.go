package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/core/ports/driving"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Default prompt templates, used when no PromptStore is configured or a
// template is missing from it.
const (
	defaultChatSystemPrompt = `You are %s, a personal assistant who knows the user well.
Ground your answer in these observations about the user:

%s

Answer naturally. Do not mention that you were given observations.`

	defaultChatSystemEmptyPrompt = `You are %s, a personal assistant.
No stored observations are relevant to this question; answer from general knowledge.`
)

// ChatService answers questions grounded on retrieved observations.
// The retrieval step supplies context; the LLM supplies the words.
type ChatService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	history   driven.ChatHistoryStore
	prompts   driven.PromptStore

	persona        string
	topK           int
	conversationID string
}

// NewChatService creates a chat service. The history store and prompt
// store are optional (can be nil).
func NewChatService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	history driven.ChatHistoryStore,
	persona string,
	topK int,
) *ChatService {
	if persona == "" {
		persona = domain.DefaultPersona
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &ChatService{
		retrieval:      retrieval,
		llm:            llm,
		history:        history,
		persona:        persona,
		topK:           topK,
		conversationID: uuid.NewString(),
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Ask answers one question. Retrieval failures propagate to the caller so
// the surface can apologise instead of silently answering without context;
// history failures are logged and swallowed.
func (s *ChatService) Ask(ctx context.Context, question string) (driving.ChatAnswer, error) {
	if s.llm == nil {
		return driving.ChatAnswer{}, domain.ErrLLMUnavailable
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return driving.ChatAnswer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	contexts, err := s.retrieval.RetrieveContext(ctx, question, s.topK)
	if err != nil {
		return driving.ChatAnswer{}, err
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.systemPrompt(contexts)},
		{Role: driven.RoleUser, Content: question},
	}

	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return driving.ChatAnswer{}, fmt.Errorf("generate reply: %w", err)
	}

	s.recordTurn(ctx, question, reply, len(contexts))

	return driving.ChatAnswer{Reply: reply, Context: contexts}, nil
}

// systemPrompt templates the persona and retrieved observations into the
// system message.
func (s *ChatService) systemPrompt(contexts []string) string {
	if len(contexts) == 0 {
		return fmt.Sprintf(s.loadPrompt(driven.PromptChatSystemEmpty, defaultChatSystemEmptyPrompt), s.persona)
	}

	var grounding strings.Builder
	for _, c := range contexts {
		grounding.WriteString("- ")
		grounding.WriteString(c)
		grounding.WriteString("\n")
	}

	template := s.loadPrompt(driven.PromptChatSystem, defaultChatSystemPrompt)
	return fmt.Sprintf(template, s.persona, strings.TrimRight(grounding.String(), "\n"))
}

func (s *ChatService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		logger.Debug("Prompt %q unavailable, using default: %v", name, err)
		return fallback
	}
	return prompt
}

func (s *ChatService) recordTurn(ctx context.Context, question, answer string, contextCount int) {
	if s.history == nil {
		return
	}

	turn := domain.ChatTurn{
		ID:             uuid.NewString(),
		ConversationID: s.conversationID,
		Question:       question,
		Answer:         answer,
		ContextCount:   contextCount,
		CreatedAt:      time.Now(),
	}
	if err := s.history.RecordTurn(ctx, turn); err != nil {
		logger.Warn("Failed to record chat turn: %v", err)
	}
}
