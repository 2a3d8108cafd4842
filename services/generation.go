package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"cognigenx/models"

	"github.com/samber/lo"
	"google.golang.org/api/googleapi"
)

const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 25

	minQuestionLength = 10
	minAPIKeyLength   = 20
	placeholderAPIKey = "your-gemini-api-key-here"

	questionSystemPrompt = "You are an expert trivia question generator specializing in creating relevant, accurate, and engaging questions for cognitive health applications. Focus on meaningful content that helps with memory and learning."

	explanationSystemPrompt = "You are an expert educator who explains trivia questions clearly and concisely. Focus on why the correct answer is right, not just what it is."
)

// Generator drives the language model for question batches and answer explanations
type Generator struct {
	apiKey  string
	llm     TextGenerator
	timeout time.Duration
	now     func() time.Time
}

func NewGenerator(apiKey string, llm TextGenerator, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{apiKey: apiKey, llm: llm, timeout: timeout, now: time.Now}
}

func (g *Generator) configured() bool {
	key := strings.TrimSpace(g.apiKey)
	return g.llm != nil && key != placeholderAPIKey && len(key) >= minAPIKeyLength
}

// Generate asks the model for count questions about subDomain (or category) and returns
// the candidates that pass validation. Every failure is a *GenerationError.
func (g *Generator) Generate(ctx context.Context, category, subDomain string, count int) ([]models.Question, error) {
	if !g.configured() {
		return nil, generationErr(CauseMisconfiguredKey, errors.New("language model API key is not configured"))
	}
	if count <= 0 {
		count = DefaultQuestionCount
	}
	count = min(count, MaxQuestionCount)

	raw, err := g.call(ctx, TextRequest{
		System:      questionSystemPrompt,
		Prompt:      buildQuestionPrompt(category, subDomain, count),
		Temperature: 0.3,
		MaxTokens:   int32(120*count + 200),
	})
	if err != nil {
		return nil, err
	}

	candidates, err := parseCandidates(raw)
	if err != nil {
		log.Printf("Unparseable model output for %s/%s: %v", category, subDomain, err)
		return nil, err
	}

	now := g.now()
	questions := make([]models.Question, 0, len(candidates))
	for _, c := range candidates {
		if !validCandidate(c) {
			continue
		}
		c.AIGenerated = true
		c.CreatedAt = now
		c.Category = category
		c.SubDomain = subDomain
		if !models.ValidDifficulty(c.Difficulty) {
			c.Difficulty = models.DifficultyMedium
		}
		questions = append(questions, c)
	}
	if len(questions) == 0 {
		return nil, generationErr(CauseNoValidQuestions, fmt.Errorf("none of %d candidates passed validation", len(candidates)))
	}

	log.Printf("Generated %d valid questions for %s/%s", len(questions), category, subDomain)
	return questions, nil
}

// Explain produces a short rationale for the correct answer
func (g *Generator) Explain(ctx context.Context, question, userAnswer, correctAnswer string) (string, error) {
	if !g.configured() {
		return "", generationErr(CauseMisconfiguredKey, errors.New("language model API key is not configured"))
	}
	prompt := fmt.Sprintf(`Provide a concise 3-line explanation for the following trivia question: "%s".
User's answer: "%s".
Correct answer: "%s".
Explain why the correct answer is correct and provide brief context. Keep it simple and educational.`,
		question, userAnswer, correctAnswer)

	text, err := g.call(ctx, TextRequest{
		System:      explanationSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   150,
	})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", generationErr(CauseProviderError, errors.New("no explanation generated"))
	}
	return text, nil
}

// call makes exactly one bounded model request
func (g *Generator) call(ctx context.Context, req TextRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.llm.GenerateText(ctx, req)
	if err != nil {
		return "", classifyModelError(ctx, err)
	}
	return text, nil
}

func classifyModelError(ctx context.Context, err error) *GenerationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return generationErr(CauseRateLimited, err)
	}

	msg := strings.ToLower(err.Error())
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			if strings.Contains(msg, "quota") {
				return generationErr(CauseQuotaExceeded, err)
			}
			return generationErr(CauseRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return generationErr(CauseMisconfiguredKey, err)
		}
	}

	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "api_key"):
		return generationErr(CauseMisconfiguredKey, err)
	case strings.Contains(msg, "quota"), strings.Contains(msg, "resource_exhausted"):
		return generationErr(CauseQuotaExceeded, err)
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return generationErr(CauseRateLimited, err)
	}
	return generationErr(CauseProviderError, err)
}

func buildQuestionPrompt(category, subDomain string, count int) string {
	topic := subDomain
	if topic == "" {
		topic = category
	}

	var hints strings.Builder
	if tmpl, ok := lookupTemplate(category, subDomain); ok {
		if len(tmpl.Topics) > 0 {
			fmt.Fprintf(&hints, "\nSPECIFIC TOPICS TO COVER: %s\n", strings.Join(tmpl.Topics, ", "))
		}
		if len(tmpl.Examples) > 0 {
			fmt.Fprintf(&hints, "\nEXAMPLE QUESTIONS FOR REFERENCE: %s\n", strings.Join(tmpl.Examples, " | "))
		}
	}

	return fmt.Sprintf(`Generate %d high-quality, relevant trivia questions about %s (category: %s).

CRITICAL REQUIREMENTS:
1. Questions MUST be specifically about %s - not generic knowledge
2. All questions should be factually accurate and educational
3. Questions should vary in difficulty (easy, medium, hard)
4. Options should be plausible and related to the topic
5. Avoid overly obscure or trivial facts
6. Focus on interesting, memorable information about India
%s
QUESTION QUALITY GUIDELINES:
- Questions should test understanding, not just memorization
- Include historical context when relevant
- Ensure cultural sensitivity and accuracy
- Make questions engaging and educational for dementia patients

Required Output Format (JSON array):
[
  {
    "question": "Specific question about %s",
    "options": ["Correct answer", "Plausible wrong answer 1", "Plausible wrong answer 2", "Plausible wrong answer 3"],
    "correct_answer": "Correct answer"
  }
]

Provide ONLY the JSON array without explanations, comments or markdown formatting.`,
		count, topic, category, topic, hints.String(), topic)
}

// parseCandidates decodes the model output as a JSON array, falling back to the outermost
// [...] substring when the model wrapped the array in prose or an object.
func parseCandidates(raw string) ([]models.Question, error) {
	cleaned := cleanModelOutput(raw)
	if cleaned == "" {
		return nil, generationErr(CauseUnparseableResponse, errors.New("empty response"))
	}

	var items []json.RawMessage
	err := json.Unmarshal([]byte(cleaned), &items)
	if err != nil {
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start < 0 || end <= start {
			return nil, generationErr(CauseUnparseableResponse, fmt.Errorf("response does not contain a JSON array: %w", err))
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &items); err != nil {
			return nil, generationErr(CauseUnparseableResponse, fmt.Errorf("failed to parse salvaged array: %w", err))
		}
	}

	// a malformed element drops only itself
	questions := make([]models.Question, 0, len(items))
	for _, item := range items {
		var q models.Question
		if err := json.Unmarshal(item, &q); err != nil {
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// validCandidate is the lenient pipeline check: enough question text, at least two
// non-blank options and a correct answer that is literally one of them.
func validCandidate(q models.Question) bool {
	if len(strings.TrimSpace(q.Question)) < minQuestionLength {
		return false
	}
	if len(q.Options) < 2 {
		return false
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return false
		}
	}
	return q.CorrectAnswer != "" && lo.Contains(q.Options, q.CorrectAnswer)
}

// StrictFilter applies the persistence policy for AI-generated questions: trimmed text,
// exactly four options and bounded lengths. It returns cleaned copies.
func StrictFilter(questions []models.Question) []models.Question {
	validated := true
	kept := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		q.Question = strings.TrimSpace(q.Question)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
		q.Options = lo.FilterMap(q.Options, func(opt string, _ int) (string, bool) {
			opt = strings.TrimSpace(opt)
			return opt, opt != ""
		})

		if len(q.Question) <= minQuestionLength || len(q.Question) >= 200 {
			continue
		}
		if len(q.Options) != 4 || lo.SomeBy(q.Options, func(opt string) bool { return len(opt) >= 100 }) {
			continue
		}
		if q.CorrectAnswer == "" || len(q.CorrectAnswer) >= 100 || !lo.Contains(q.Options, q.CorrectAnswer) {
			continue
		}
		if !models.ValidDifficulty(q.Difficulty) {
			q.Difficulty = models.DifficultyMedium
		}
		q.AIGenerated = true
		q.Validated = &validated
		kept = append(kept, q)
	}
	return kept
}
