package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// jsonRe pulls the first JSON object out of a model response that may wrap
// it in prose or code fences.
var jsonRe = regexp.MustCompile(`(?s)\{.*\}`)

// GeminiConfig holds settings for the Gemini client.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// RateLimit is requests per second; zero disables client-side limiting.
	RateLimit float64
}

// Gemini implements Client against the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewGemini creates a Gemini client. Construction failure is fatal for the
// daemon: the pipeline cannot run without its generative collaborator.
func NewGemini(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key required")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini model name required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger.Info("gemini client initialized", zap.String("model", cfg.Model))

	return &Gemini{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Generate implements Client.
func (g *Gemini) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapGenaiError(err)
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateStructured implements Client. It appends a JSON-only instruction,
// extracts the first JSON object from the response and unmarshals it.
func (g *Gemini) GenerateStructured(ctx context.Context, prompt string, temperature float32, out any) error {
	text, err := g.Generate(ctx, prompt+"\n\nRespond in valid JSON format only.", temperature)
	if err != nil {
		return err
	}

	if err := parseStructured(text, out); err != nil {
		g.logger.Debug("structured response was not valid JSON", zap.String("response", text))
		return err
	}
	return nil
}

// parseStructured extracts the first JSON object from a model response and
// unmarshals it into out.
func parseStructured(text string, out any) error {
	raw := jsonRe.FindString(text)
	if raw == "" {
		raw = text
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parsing structured response: %w", err)
	}
	return nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

// wrapGenaiError maps quota refusals to ErrQuotaExceeded so callers can
// select the quota-specific fallback wording.
func wrapGenaiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Message)
	}
	return fmt.Errorf("generating content: %w", err)
}

var _ Client = (*Gemini)(nil)
