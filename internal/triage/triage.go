// Package triage sends a filtered simulation session to a local LLM for a
// first-pass failure analysis. The model sees only what the filter kept:
// the retained lines and the session statistics, never the raw stream.
package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/voltlane/silt/internal/filter"
)

// Common errors
var (
	ErrUnavailable = errors.New("triage model is not reachable")
	ErrCanceled    = errors.New("triage was canceled")
	ErrEmptyReport = errors.New("nothing to triage")
)

// Config holds settings for the triage client.
type Config struct {
	// Host is the Ollama API endpoint (e.g., "http://localhost:11434").
	// Empty uses the OLLAMA_HOST environment variable or the default.
	Host string

	// Model is the model to use (e.g., "llama3.2").
	Model string

	// Temperature controls randomness. 0 keeps triage output consistent.
	Temperature float32

	// MaxTokens limits the response length (0 = provider default).
	MaxTokens int

	// MaxLines caps how many retained lines go into the prompt. When the
	// report is longer, the earliest lines are dropped: verdicts and
	// failure details cluster at the end of a run.
	MaxLines int
}

// Report is the material handed to the model.
type Report struct {
	// Command is the simulator invocation, when known.
	Command string

	// Lines are the retained lines of the session, in stream order.
	Lines []string

	// Stats is the session's statistics snapshot.
	Stats filter.Statistics

	// Question is an optional specific question. Empty asks for a general
	// verdict and root-cause sketch.
	Question string
}

// Response represents a complete triage answer.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

// StreamEvent represents a single event in a streaming triage answer.
type StreamEvent struct {
	Content string
	Done    bool
	Error   error
}

// Client talks to an Ollama instance.
type Client struct {
	client *api.Client
	config Config
	logger *slog.Logger
}

// New creates a triage client.
// If cfg.Host is empty, it uses the OLLAMA_HOST environment variable or
// defaults to http://localhost:11434.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	// Start with environment-based client (respects OLLAMA_HOST)
	client, err := api.ClientFromEnvironment()
	if err != nil {
		logger.Error("failed to create ollama client from environment", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Override with explicit config if provided
	if cfg.Host != "" {
		parsedURL, err := url.Parse(cfg.Host)
		if err != nil {
			logger.Error("invalid ollama host URL", "host", cfg.Host, "error", err)
			return nil, fmt.Errorf("invalid ollama host: %w", err)
		}

		client = api.NewClient(parsedURL, http.DefaultClient)
		logger.Debug("created ollama client with explicit host", "host", cfg.Host)
	} else {
		logger.Debug("created ollama client from environment")
	}

	if cfg.Model == "" {
		cfg.Model = "llama3.2"
		logger.Debug("using default model", "model", cfg.Model)
	}

	if cfg.MaxLines <= 0 {
		cfg.MaxLines = 200
	}

	return &Client{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Explain sends a report to the model and returns a complete answer.
func (c *Client) Explain(ctx context.Context, report Report) (*Response, error) {
	if len(report.Lines) == 0 && report.Stats.Observed == 0 {
		return nil, ErrEmptyReport
	}

	c.logger.Debug("sending triage request",
		"model", c.config.Model,
		"lines", len(report.Lines),
		"observed", report.Stats.Observed)

	req := c.buildRequest(report, false)

	var response api.ChatResponse
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})

	if err != nil {
		c.logger.Error("triage request failed", "error", err, "model", c.config.Model)
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", ErrCanceled, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.logger.Debug("triage request completed",
		"model", response.Model,
		"prompt_tokens", response.PromptEvalCount,
		"total_tokens", response.EvalCount)

	return &Response{
		Content:      response.Message.Content,
		Model:        response.Model,
		TokensPrompt: response.PromptEvalCount,
		TokensTotal:  response.PromptEvalCount + response.EvalCount,
	}, nil
}

// ExplainStream sends a report to the model and returns a channel of
// streaming events. The channel is closed when the stream completes or
// encounters an error.
func (c *Client) ExplainStream(ctx context.Context, report Report) (<-chan StreamEvent, error) {
	if len(report.Lines) == 0 && report.Stats.Observed == 0 {
		return nil, ErrEmptyReport
	}

	c.logger.Debug("starting triage stream",
		"model", c.config.Model,
		"lines", len(report.Lines),
		"observed", report.Stats.Observed)

	req := c.buildRequest(report, true)

	eventChan := make(chan StreamEvent, 10)

	go func() {
		defer close(eventChan)

		err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			select {
			case <-ctx.Done():
				c.logger.Debug("triage stream canceled by context")
				eventChan <- StreamEvent{
					Error: fmt.Errorf("%w: %v", ErrCanceled, ctx.Err()),
					Done:  true,
				}
				return ctx.Err()
			default:
			}

			if resp.Message.Content != "" {
				eventChan <- StreamEvent{
					Content: resp.Message.Content,
					Done:    resp.Done,
				}
			}

			if resp.Done {
				c.logger.Debug("triage stream completed",
					"model", resp.Model,
					"prompt_tokens", resp.PromptEvalCount,
					"total_tokens", resp.EvalCount)
			}

			return nil
		})

		if err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("triage stream failed", "error", err, "model", c.config.Model)
			eventChan <- StreamEvent{
				Error: fmt.Errorf("%w: %v", ErrUnavailable, err),
				Done:  true,
			}
		}
	}()

	return eventChan, nil
}

// buildRequest assembles the chat request for a report.
func (c *Client) buildRequest(report Report, streaming bool) *api.ChatRequest {
	req := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: buildMessages(report, c.config.MaxLines),
		Options: map[string]interface{}{
			"temperature": c.config.Temperature,
		},
		Stream: &streaming,
	}

	if c.config.MaxTokens > 0 {
		req.Options["num_predict"] = c.config.MaxTokens
	}

	return req
}

// Heartbeat checks if the Ollama service is reachable and healthy.
func (c *Client) Heartbeat(ctx context.Context) error {
	c.logger.Debug("checking ollama heartbeat")

	if err := c.client.Heartbeat(ctx); err != nil {
		c.logger.Error("ollama heartbeat failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.logger.Debug("ollama heartbeat successful")
	return nil
}

// ModelAvailable checks if the configured model has been pulled.
func (c *Client) ModelAvailable(ctx context.Context) (bool, error) {
	c.logger.Debug("checking model availability", "model", c.config.Model)

	listResp, err := c.client.List(ctx)
	if err != nil {
		c.logger.Error("failed to list models", "error", err)
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	for _, modelInfo := range listResp.Models {
		if modelInfo.Name == c.config.Model || modelInfo.Model == c.config.Model {
			return true, nil
		}
	}

	c.logger.Debug("model not found", "model", c.config.Model, "available_count", len(listResp.Models))
	return false, nil
}
