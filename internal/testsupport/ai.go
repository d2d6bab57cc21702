package testsupport

import (
	"context"
	"sync"
)

// StubChat is a scripted ai.Chat implementation. Responses are returned in
// order; once exhausted the last response repeats. A non-nil Err is returned
// for every call instead.
type StubChat struct {
	ModelName string
	Responses []string
	Err       error

	mu         sync.Mutex
	calls      int
	lastSystem string
	lastUser   string
}

// CompleteJSON returns the next scripted response.
func (s *StubChat) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	s.calls++
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Responses) == 0 {
		return "{}", nil
	}
	idx := s.calls - 1
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}
	return s.Responses[idx], nil
}

// Model reports the stubbed model name.
func (s *StubChat) Model() string {
	if s.ModelName == "" {
		return "stub-model"
	}
	return s.ModelName
}

// Calls reports how many completions were requested.
func (s *StubChat) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastPrompts returns the most recent system and user prompts.
func (s *StubChat) LastPrompts() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSystem, s.lastUser
}

// StubTranscriber is a scripted ai.Transcriber implementation.
type StubTranscriber struct {
	Text string
	Err  error

	mu        sync.Mutex
	lastAudio string
}

// Transcribe returns the scripted transcript.
func (s *StubTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	s.mu.Lock()
	s.lastAudio = audioPath
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}

// LastAudioPath reports the most recent audio path passed to Transcribe.
func (s *StubTranscriber) LastAudioPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAudio
}
