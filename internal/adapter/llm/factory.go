package llm

import (
	"time"

	"github.com/rs/zerolog"
)

// ModeMock selects the mock client.
const ModeMock = "MOCK"

// NewLLMClient creates an LLM client for the given mode. ModeMock returns a
// MockClient; any other value returns a real Client.
func NewLLMClient(mode, baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) LLMClient {
	if mode == ModeMock {
		log.Warn().Msg("LLM_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
