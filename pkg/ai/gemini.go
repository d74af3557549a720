package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig defines configuration options for the Gemini text generator.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Endpoint    string
	Temperature float64
	Streaming   bool
	HTTPClient  *http.Client
	Logger      zerolog.Logger
}

// GeminiClient implements TextGenerator against the Gemini generateContent API.
// In streaming mode the endpoint returns newline-delimited JSON chunks which
// are reassembled into a single output string.
type GeminiClient struct {
	cfg    GeminiConfig
	client *http.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiClient builds a new client using the provided configuration.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-pro"
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultGeminiEndpoint
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &GeminiClient{
		cfg:    cfg,
		client: client,
		tracer: otel.Tracer("github.com/taskscore/taskscore-api/pkg/ai/gemini"),
		logger: logger,
	}, nil
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiChunk struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content    *geminiContent `json:"content"`
	OutputText string         `json:"output_text"`
}

// text concatenates the candidate text fragments of one response chunk. Only
// the two documented candidate shapes are accepted; anything else fails closed.
func (c geminiChunk) text() (string, error) {
	if len(c.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini response has no candidates", ErrMalformedResponse)
	}

	out := strings.Builder{}
	for _, candidate := range c.Candidates {
		switch {
		case candidate.Content != nil && len(candidate.Content.Parts) > 0:
			for _, part := range candidate.Content.Parts {
				out.WriteString(part.Text)
			}
		case candidate.OutputText != "":
			out.WriteString(candidate.OutputText)
		default:
			return "", fmt.Errorf("%w: gemini candidate carries no recognised content shape", ErrMalformedResponse)
		}
	}

	return out.String(), nil
}

// Generate performs one roundtrip to the Gemini endpoint for the given prompt.
func (g *GeminiClient) Generate(parent context.Context, prompt string) (string, error) {
	ctx, span := g.tracer.Start(parent, "gemini.generate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.Bool("streaming", g.cfg.Streaming),
	))
	defer span.End()

	start := time.Now()
	text, err := g.roundtrip(ctx, prompt)
	generationDuration.WithLabelValues("gemini", g.cfg.Model).Observe(time.Since(start).Seconds())

	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}

	if err != nil {
		generationFailures.WithLabelValues("gemini", g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return text, nil
}

func (g *GeminiClient) roundtrip(ctx context.Context, prompt string) (string, error) {
	operation := "generateContent"
	if g.cfg.Streaming {
		operation = "streamGenerateContent"
	}
	endpoint := fmt.Sprintf("%s/models/%s:%s?key=%s", g.cfg.Endpoint, g.cfg.Model, operation, g.cfg.APIKey)

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{Temperature: g.cfg.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return "", &ProviderError{Provider: "gemini", StatusCode: resp.StatusCode, Body: string(body)}
	}

	if g.cfg.Streaming {
		return g.decodeStream(resp.Body)
	}

	return decodeSingle(resp.Body)
}

func decodeSingle(r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	var chunk geminiChunk
	if err := json.Unmarshal(body, &chunk); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	return chunk.text()
}

// decodeStream incrementally reassembles a newline-delimited chunk stream.
// Complete lines are parsed as they arrive; a partial trailing line is held
// back and retried once more bytes are buffered. At stream end one final parse
// of anything unconsumed is attempted and silently dropped on failure, so the
// result depends only on the concatenated byte stream, not on how the network
// happened to split it.
func (g *GeminiClient) decodeStream(r io.Reader) (string, error) {
	out := strings.Builder{}
	var pending []byte
	buf := make([]byte, 4096)

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				idx := bytes.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				line := bytes.TrimSpace(pending[:idx])
				pending = pending[idx+1:]
				if len(line) > 0 {
					g.appendChunkText(&out, line)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("read gemini stream: %w", readErr)
		}
	}

	if line := bytes.TrimSpace(pending); len(line) > 0 {
		g.appendChunkText(&out, line)
	}

	return out.String(), nil
}

func (g *GeminiClient) appendChunkText(out *strings.Builder, line []byte) {
	var chunk geminiChunk
	if err := json.Unmarshal(line, &chunk); err != nil {
		g.logger.Debug().Err(err).Msg("dropping unparseable stream line")
		return
	}

	text, err := chunk.text()
	if err != nil {
		g.logger.Debug().Err(err).Msg("dropping stream chunk with unexpected shape")
		return
	}

	out.WriteString(text)
}
