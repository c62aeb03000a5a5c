package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	gradingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "quizly",
		Subsystem: "ai",
		Name:      "grading_duration_seconds",
		Help:      "Duration of AI grading requests",
	}, []string{"model"})

	gradingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizly",
		Subsystem: "ai",
		Name:      "grading_failures_total",
		Help:      "Number of AI grading failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI grader.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGrader implements Grader against the OpenAI chat completion API.
type OpenAIGrader struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGrader builds a new grader using the provided configuration.
func NewOpenAIGrader(cfg OpenAIConfig) (*OpenAIGrader, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}

	tracer := otel.Tracer("github.com/quizly-app/quizly-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIGrader{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Grade sends the grading request to OpenAI and parses the response.
func (g *OpenAIGrader) Grade(parent context.Context, question, answer string) (Verdict, error) {
	ctx, span := g.tracer.Start(parent, "openai.grade", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: graderSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildGradingPrompt(question, answer),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	gradingDuration.WithLabelValues(g.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		gradingFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Verdict{}, fmt.Errorf("openai grade: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		gradingFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Verdict{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	verdict, err := parseVerdict(content)
	if err != nil {
		gradingFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Verdict{}, err
	}

	span.SetAttributes(attribute.String("grading.rating", string(verdict.Rating)))

	return verdict, nil
}

func graderSystemPrompt() string {
	return "You are grading a student's short answer to a daily quiz question. " +
		"Classify the answer into exactly one of: correct, partial, incorrect. " +
		"Respond with a single JSON object containing the fields rating and feedback, and nothing else. " +
		"Do not wrap the JSON in markdown code fences."
}

func buildGradingPrompt(question, answer string) string {
	builder := strings.Builder{}
	builder.WriteString("# Question\n")
	builder.WriteString(question)
	builder.WriteString("\n\n# Student Answer\n")
	builder.WriteString(answer)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

// stripCodeFence removes a surrounding markdown code fence, with or without a
// json language tag. Some models still emit one despite instructions.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}

func parseVerdict(content string) (Verdict, error) {
	type payload struct {
		Rating   string `json:"rating"`
		Feedback string `json:"feedback"`
	}

	var data payload
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &data); err != nil {
		return Verdict{}, fmt.Errorf("parse verdict json: %w", err)
	}

	rating := Rating(strings.ToLower(strings.TrimSpace(data.Rating)))
	if !rating.Valid() {
		return Verdict{}, fmt.Errorf("unknown rating %q", data.Rating)
	}

	return Verdict{
		Rating:   rating,
		Feedback: data.Feedback,
	}, nil
}
