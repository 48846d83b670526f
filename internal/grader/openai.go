package grader

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smartgrade/backend/internal/domain/correction"
)

// OpenAIGrader grades answers by calling an OpenAI-compatible chat endpoint
// (ZhipuAI, OpenAI, Ollama, vLLM, etc.).
type OpenAIGrader struct {
	client *openai.Client
	model  string
}

// Compile-time check: *OpenAIGrader satisfies the AnswerGrader interface.
var _ AnswerGrader = (*OpenAIGrader)(nil)

// gradePayload is the structured output the model is asked to produce.
type gradePayload struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Comment    string  `json:"comment"`
}

// GradeError is returned when grading fails so the caller can distinguish
// between "model returned a bad grade" and "model was unreachable."
type GradeError struct {
	Reason  string
	Wrapped error
}

func (e *GradeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("grading failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("grading failed: %s", e.Reason)
}

func (e *GradeError) Unwrap() error {
	return e.Wrapped
}

// NewOpenAIGrader creates a grader against the given endpoint. baseURL must
// point at an OpenAI-compatible API root, e.g.
// "https://open.bigmodel.cn/api/paas/v4".
func NewOpenAIGrader(baseURL, apiKey, model string) *OpenAIGrader {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGrader{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// ============================================================================
// AnswerGrader interface
// ============================================================================

const maxRetries = 2

// Grade sends the answer and rubric to the model and parses a
// {score, confidence, comment} object out of its reply.
//
// It retries once on parse failure (small models sometimes need a second try).
func (g *OpenAIGrader) Grade(ctx context.Context, unit AnswerUnit, rubric string, maxScore float64) (correction.Correction, error) {
	prompt := buildPrompt(unit, rubric, maxScore)

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		reply, err := g.callModel(ctx, prompt)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		jsonStr := extractJSON(reply)
		if jsonStr == "" {
			lastErr = &GradeError{Reason: "no JSON object found in model response"}
			continue
		}

		var payload gradePayload
		if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
			lastErr = &GradeError{Reason: "invalid JSON from model", Wrapped: err}
			continue
		}

		return correction.Correction{
			QID:        unit.QID,
			Type:       unit.Label,
			Score:      clamp(payload.Score, 0, maxScore),
			MaxScore:   maxScore,
			Confidence: clamp(payload.Confidence, 0, 1),
			Comment:    payload.Comment,
		}, nil
	}

	return correction.Correction{}, &GradeError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxRetries),
		Wrapped: lastErr,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ============================================================================
// Model communication
// ============================================================================

// callModel sends a single chat request and returns the raw text reply.
func (g *OpenAIGrader) callModel(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("model returned empty content")
	}

	return content, nil
}

// ============================================================================
// Prompt builders. Kept short and directive for small models.
//
// Design principles:
//   - State the rubric and the maximum score explicitly; the model only has
//     to distribute points, not invent criteria.
//   - One focused instruction block per question type.
//   - Always end with the JSON schema so it's the last thing the model sees.
// ============================================================================

func buildPrompt(unit AnswerUnit, rubric string, maxScore float64) string {
	var rules string
	switch unit.Type {
	case correction.TypeCalculation:
		rules = `RULES:
- Award partial credit per step: a correct method with an arithmetic slip keeps most of its points.
- A wrong final result with a correct derivation is not zero.
- A bare final result without working earns at most half of the step points.`
	case correction.TypeProof:
		rules = `RULES:
- Check the logical chain step by step; a gap in the chain loses the points of that step and everything that depends on it.
- Award the conclusion points only if the conclusion actually follows from what was shown.
- Alternative valid proof strategies earn full credit.`
	case correction.TypeProgramming:
		rules = `RULES:
- Compare structure and logic, not exact variable names.
- The code must be syntactically plausible and achieve the required result.
- Award algorithm-choice points only if the required algorithm is used.
- Do NOT deduct for missing imports unless they are critical to the logic.`
	default:
		rules = `RULES:
- The answer earns points when it expresses the required ideas, even with different wording or synonyms.
- Missing or wrong key ideas lose their points.
- Do not award points for restating the question.`
	}

	return fmt.Sprintf(`You are grading one %s homework answer against a rubric. Distribute points strictly according to the rubric.

%s

RUBRIC (maximum score %g):
%s

STUDENT'S ANSWER:
%s

Respond with ONLY this JSON — no explanation, no markdown:
{"score": <number between 0 and %g>, "confidence": <number between 0 and 1>, "comment": "<short feedback for the student>"}`,
		unit.Type, rules, maxScore, rubric, unit.Content, maxScore)
}

// ============================================================================
// JSON extraction
// ============================================================================

// extractJSON finds the outermost JSON object in a string.
// It handles nested braces correctly and skips braces inside quoted strings.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
