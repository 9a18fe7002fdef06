package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"codestop/stopper"
)

// ErrNoAPIKey is returned when the assistant has no API key configured.
var ErrNoAPIKey = errors.New("assistant API key is not configured")

const explainSystemPrompt = `You are a helpful coding assistant that explains syntax errors and suggests fixes.

Be concise but helpful. Format your response as:
1. **Problem**: One sentence explaining what's wrong
2. **Fix**: The corrected code
3. **Tip**: A brief tip to avoid this error in the future`

const completionSystemPrompt = `You are a code completion assistant for %s.

Given the code context, suggest the most likely completion.

Rules:
- Output ONLY the completion text (what comes next)
- Keep suggestions short (1-2 lines max)
- Match the coding style and indentation
- Be contextually relevant
- No explanations, just the code completion`

const chatSystemPrompt = "You are a coding assistant inside a terminal code editor. " +
	"Answer briefly and show code when it helps."

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID        string
	Role      string
	Content   string
	Timestamp time.Time
}

func newChatMessage(role, content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Assistant talks to an OpenAI-compatible chat completion endpoint.
// Assistant работает с любым OpenAI-совместимым API.
type Assistant struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	group   singleflight.Group
	logger  *slog.Logger
}

// NewAssistant builds an assistant from the assistant config section.
func NewAssistant(cfg AssistantConfig, logger *slog.Logger) (*Assistant, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	interval := cfg.RateInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	burst := max(cfg.Burst, 1)
	logger.Info("initializing assistant", "model", cfg.Model, "base_url", clientCfg.BaseURL)
	return &Assistant{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Every(interval), burst),
		logger:  logger,
	}, nil
}

// ExplainRejection asks the model why a line was rejected and how to fix it.
// Identical concurrent requests share one call.
func (a *Assistant) ExplainRejection(ctx context.Context, r stopper.Rejection) (string, error) {
	user := fmt.Sprintf("Language: %s\nLine %d: %s\n\nError: %s\n\nExplain this error and show how to fix it.",
		r.Language, r.LineNumber, r.Line, r.Verdict.Message)
	key := strings.Join([]string{r.Language.String(), r.Line, r.Verdict.Message}, "\x00")

	v, err, shared := a.group.Do(key, func() (any, error) {
		return a.complete(ctx, openai.ChatCompletionRequest{
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: explainSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			MaxTokens:   300,
			Temperature: 0.3,
		})
	})
	if err != nil {
		return "", err
	}
	if shared {
		a.logger.Debug("explain request shared", "line", r.LineNumber)
	}
	text := v.(string)
	if text == "" {
		text = "Unable to explain error"
	}
	return text, nil
}

// Complete suggests what comes after code.
func (a *Assistant) Complete(ctx context.Context, code, language string) (string, error) {
	text, err := a.complete(ctx, openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(completionSystemPrompt, language)},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Complete this %s code:\n\n%s\n\n[CURSOR HERE]", language, code)},
		},
		MaxTokens:   100,
		Temperature: 0.2,
		Stop:        []string{"\n\n", "```"},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Ask continues the conversation in history with question about code.
func (a *Assistant) Ask(ctx context.Context, history []ChatMessage, question, code string) (string, error) {
	msgs := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt}}
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	content := question
	if strings.TrimSpace(code) != "" {
		content += "\n\nCurrent file:\n```\n" + code + "\n```"
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: content})
	return a.complete(ctx, openai.ChatCompletionRequest{
		Messages:    msgs,
		MaxTokens:   800,
		Temperature: 0.5,
	})
}

func (a *Assistant) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("assistant rate limit: %w", err)
	}
	req.Model = a.model
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		a.logger.Error("assistant request failed", "error", err)
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("assistant returned no choices")
	}
	a.logger.Debug("assistant response", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
