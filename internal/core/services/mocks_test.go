package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockCorpus implements driven.CorpusSource.
type mockCorpus struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (m *mockCorpus) Lines(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.lines...), nil
}

func (m *mockCorpus) setLines(lines ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = lines
}

// mockObservationStore implements driven.ObservationStore in memory.
type mockObservationStore struct {
	mu           sync.Mutex
	observations []domain.Observation
	loadErr      error
	replaceErr   error
	replaceCalls int
}

func (m *mockObservationStore) Load(_ context.Context) ([]domain.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.Observation(nil), m.observations...), nil
}

func (m *mockObservationStore) Replace(_ context.Context, observations []domain.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.observations = append([]domain.Observation(nil), observations...)
	return nil
}

func (m *mockObservationStore) Path() string { return "mock://index" }

func (m *mockObservationStore) snapshot() []domain.Observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Observation(nil), m.observations...)
}

func (m *mockObservationStore) replaceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaceCalls
}

// stubEmbedder implements driven.EmbeddingService with deterministic
// vectors so semantic ordering in tests is predictable. Texts without a
// configured vector embed to a default direction.
type stubEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	failOn  map[string]bool
	calls   []string
	err     error
	dims    int
}

func newStubEmbedder(dims int) *stubEmbedder {
	return &stubEmbedder{
		vectors: make(map[string][]float32),
		failOn:  make(map[string]bool),
		dims:    dims,
	}
}

func (m *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn[text] {
		return nil, fmt.Errorf("embedding %q: rate limited", text)
	}
	if v, ok := m.vectors[text]; ok {
		return append([]float32(nil), v...), nil
	}
	v := make([]float32, m.dims)
	v[0] = 1
	return v, nil
}

func (m *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *stubEmbedder) Dimensions() int              { return m.dims }
func (m *stubEmbedder) ModelName() string            { return "stub-embed" }
func (m *stubEmbedder) Ping(_ context.Context) error { return nil }
func (m *stubEmbedder) Close() error                 { return nil }

func (m *stubEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *stubEmbedder) calledWith(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == text {
			return true
		}
	}
	return false
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	messages [][]driven.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return "stub-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastMessages() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil
	}
	return m.messages[len(m.messages)-1]
}

// mockHistory implements driven.ChatHistoryStore.
type mockHistory struct {
	mu    sync.Mutex
	turns []domain.ChatTurn
	err   error
}

func (m *mockHistory) RecordTurn(_ context.Context, turn domain.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.turns = append(m.turns, turn)
	return nil
}

func (m *mockHistory) ListRecent(_ context.Context, limit int) ([]domain.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.turns) {
		limit = len(m.turns)
	}
	out := make([]domain.ChatTurn, 0, limit)
	for i := len(m.turns) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.turns[i])
	}
	return out, nil
}

func (m *mockHistory) Close() error { return nil }

func (m *mockHistory) recorded() []domain.ChatTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatTurn(nil), m.turns...)
}
