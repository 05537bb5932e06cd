package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPProvider talks to an OpenAI-compatible chat completions endpoint.
type HTTPProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// HTTPConfig holds configuration for the HTTP provider
type HTTPConfig struct {
	APIKey  string
	BaseURL string // default: https://api.openai.com
	Model   string // default: gpt-4o-mini
}

// NewHTTPProvider creates a provider for an OpenAI-compatible API.
func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	return &HTTPProvider{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: newTutorHTTPClient(),
	}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Ask sends the question with its exercise context and returns the answer.
func (p *HTTPProvider) Ask(ctx context.Context, req *Request) (*Answer, error) {
	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return &Answer{Model: chatResp.Model}, nil
	}

	return &Answer{
		Content:      chatResp.Choices[0].Message.Content,
		Model:        chatResp.Model,
		InputTokens:  chatResp.Usage.PromptTokens,
		OutputTokens: chatResp.Usage.CompletionTokens,
	}, nil
}

// buildRequest assembles the chat payload. The exercise context rides along
// as a user message so the hub never owns prompt text.
func (p *HTTPProvider) buildRequest(req *Request) *chatRequest {
	messages := make([]chatMessage, 0, 2)

	if req.QuestionTitle != "" || req.Code != "" {
		context := "Exercise: " + req.QuestionTitle
		if req.Language != "" {
			context += "\nLanguage: " + req.Language
		}
		if req.Code != "" {
			context += "\nLearner code:\n" + req.Code
		}
		messages = append(messages, chatMessage{Role: "user", Content: context})
	}

	messages = append(messages, chatMessage{Role: "user", Content: req.Question})

	return &chatRequest{
		Model:    p.model,
		Messages: messages,
	}
}
