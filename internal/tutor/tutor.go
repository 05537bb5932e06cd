// Package tutor is a thin client for an external AI tutoring service. The
// hub forwards the learner's question together with its exercise context and
// returns the provider's answer verbatim.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// Request carries one learner question and its exercise context.
type Request struct {
	Question      string `json:"question"`
	QuestionTitle string `json:"question_title,omitempty"`
	Code          string `json:"code,omitempty"`
	Language      string `json:"language,omitempty"`
}

// Answer is the provider's reply.
type Answer struct {
	Content      string `json:"content"`
	Model        string `json:"model,omitempty"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
}

// Provider generates tutoring answers.
type Provider interface {
	Name() string
	Ask(ctx context.Context, req *Request) (*Answer, error)
}

// Service validates tutoring requests before handing them to the provider.
type Service struct {
	provider Provider
}

// NewService creates a tutoring service.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Ask forwards one question to the provider.
func (s *Service) Ask(ctx context.Context, req *Request) (*Answer, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	return s.provider.Ask(ctx, req)
}
