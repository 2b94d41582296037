package testutils

import (
	"context"
	"fmt"
)

// MockGenerator is a test text generator with canned output.
type MockGenerator struct {
	// Response is returned for every prompt. Defaults to a fixed string.
	Response string

	// Fail causes Generate to return an error.
	Fail bool

	// Prompts records every prompt, in order.
	Prompts []string
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{Response: "mock answer"}
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if m.Fail {
		return "", fmt.Errorf("mock generation failure")
	}
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, nil
}

func (m *MockGenerator) Close() error {
	return nil
}
