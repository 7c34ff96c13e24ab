package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
	"text/template"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smartcook/backend/config"
)

// Generation failure categories as surfaced to the user.
const (
	CategoryTimeout   = "timeout"
	CategoryTransport = "transport"
	CategoryStatus    = "status"
	CategoryEmpty     = "empty"
)

// GenerationError describes a failed generation call. Category is one of
// the constants above and is included in user-visible failure messages.
type GenerationError struct {
	Category string
	Message  string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed (%s): %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Category, e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// chatMessage is one message of a chat-completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the body of an OpenAI-compatible chat-completions call.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatResponse is the subset of the chat-completions response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// LLMService renders prompt templates and calls an OpenAI-compatible
// chat-completions endpoint. Successful responses are optionally cached in
// Redis keyed by a hash of the rendered prompt.
type LLMService struct {
	client    *resty.Client
	model     string
	maxTokens int
	templates *template.Template
	cache     *redis.Client
	cacheCfg  config.CacheConfig
	logger    *zap.Logger
}

// NewLLMService creates a new LLMService instance. cache may be nil, in
// which case responses are not cached.
func NewLLMService(cfg *config.Config, cache *redis.Client, logger *zap.Logger) (*LLMService, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}

	templates, err := newPromptTemplates()
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetBaseURL(cfg.OpenAI.BaseURL).
		SetTimeout(cfg.OpenAI.Timeout).
		SetAuthToken(cfg.OpenAI.APIKey).
		SetHeader("Content-Type", "application/json")

	return &LLMService{
		client:    client,
		model:     cfg.OpenAI.Model,
		maxTokens: cfg.OpenAI.MaxTokens,
		templates: templates,
		cache:     cache,
		cacheCfg:  cfg.Cache,
		logger:    logger,
	}, nil
}

// Generate renders the named template with data and returns the model's
// text response. All failures are *GenerationError.
func (s *LLMService) Generate(ctx context.Context, templateID string, data any) (string, error) {
	tmpl := s.templates.Lookup(templateID)
	if tmpl == nil {
		return "", &GenerationError{Category: CategoryTransport, Message: fmt.Sprintf("unknown template %q", templateID)}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &GenerationError{Category: CategoryTransport, Message: "failed to render prompt", Err: err}
	}
	prompt := buf.String()

	if cached, ok := s.cacheGet(ctx, templateID, prompt); ok {
		return cached, nil
	}

	answer, err := s.complete(ctx, templateID, prompt)
	if err != nil {
		return "", err
	}

	s.cacheSet(ctx, templateID, prompt, answer)
	return answer, nil
}

func (s *LLMService) complete(ctx context.Context, templateID, prompt string) (string, error) {
	body := chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: promptTemperature[templateID],
		MaxTokens:   s.maxTokens,
	}

	var result chatResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post("/chat/completions")
	if err != nil {
		category := CategoryTransport
		var nerr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
			category = CategoryTimeout
		}
		return "", &GenerationError{Category: category, Message: "request failed", Err: err}
	}

	if resp.IsError() {
		msg := fmt.Sprintf("unexpected status %d", resp.StatusCode())
		if result.Error != nil && result.Error.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, result.Error.Message)
		}
		return "", &GenerationError{Category: CategoryStatus, Message: msg}
	}

	if len(result.Choices) == 0 {
		return "", &GenerationError{Category: CategoryEmpty, Message: "no choices in response"}
	}

	answer := strings.TrimSpace(result.Choices[0].Message.Content)
	if answer == "" {
		return "", &GenerationError{Category: CategoryEmpty, Message: "empty response content"}
	}
	return answer, nil
}

// ExtractSearchTerm asks the model to reduce a user utterance to a short
// title search phrase.
func (s *LLMService) ExtractSearchTerm(ctx context.Context, userText string) (string, error) {
	return s.Generate(ctx, TemplateSearchTerm, map[string]any{"UserText": userText})
}

// GroundedAnswer answers the original user query against the rendered
// recipe context.
func (s *LLMService) GroundedAnswer(ctx context.Context, query, recipeContext string) (string, error) {
	return s.Generate(ctx, TemplateGroundedAnswer, map[string]any{
		"UserQuery":     query,
		"RecipeContext": recipeContext,
	})
}

// SuggestAlternatives offers catalog-grounded alternatives for a query that
// matched nothing.
func (s *LLMService) SuggestAlternatives(ctx context.Context, query, recipesBlock string) (string, error) {
	return s.Generate(ctx, TemplateSuggest, map[string]any{
		"UserQuery":    query,
		"RecipesBlock": recipesBlock,
	})
}

func (s *LLMService) cacheKey(templateID, prompt string) string {
	sum := sha256.Sum256([]byte(templateID + "\x00" + prompt))
	return "llm:response:" + hex.EncodeToString(sum[:])
}

func (s *LLMService) cacheGet(ctx context.Context, templateID, prompt string) (string, bool) {
	if s.cache == nil || !s.cacheCfg.Enabled {
		return "", false
	}
	val, err := s.cache.Get(ctx, s.cacheKey(templateID, prompt)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("llm cache read failed", zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (s *LLMService) cacheSet(ctx context.Context, templateID, prompt, answer string) {
	if s.cache == nil || !s.cacheCfg.Enabled {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(templateID, prompt), answer, s.cacheCfg.TTL).Err(); err != nil {
		s.logger.Warn("llm cache write failed", zap.Error(err))
	}
}
