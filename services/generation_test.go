package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cognigenx/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

const testAPIKey = "test-key-0123456789abcdef"

type fakeLLM struct {
	reply    string
	err      error
	requests []TextRequest
	block    bool
}

func (f *fakeLLM) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

const twoQuestions = `[
  {"question": "What is the capital of Tamil Nadu?", "options": ["Chennai", "Madurai", "Coimbatore", "Salem"], "correct_answer": "Chennai"},
  {"question": "Which river is known as the Ganga of the South?", "options": ["Kaveri", "Krishna", "Godavari", "Tapti"], "correctAnswer": "Godavari", "difficulty": "hard"}
]`

func TestParseCandidates(t *testing.T) {
	t.Run("fenced array", func(t *testing.T) {
		qs, err := parseCandidates("```json\n" + twoQuestions + "\n```")
		require.NoError(t, err)
		require.Len(t, qs, 2)
		assert.Equal(t, "Chennai", qs[0].CorrectAnswer)
		assert.Equal(t, "Godavari", qs[1].CorrectAnswer)
	})

	t.Run("array inside prose", func(t *testing.T) {
		qs, err := parseCandidates("Here are your questions:\n" + twoQuestions + "\nEnjoy!")
		require.NoError(t, err)
		assert.Len(t, qs, 2)
	})

	t.Run("malformed element is dropped", func(t *testing.T) {
		qs, err := parseCandidates(`[{"question": "Valid question text here?", "options": ["a", "b"], "correct_answer": "a"}, {"question": 42}]`)
		require.NoError(t, err)
		assert.Len(t, qs, 1)
	})

	for name, raw := range map[string]string{
		"empty":     "  ",
		"no array":  "I cannot help with that.",
		"object":    `{"question": "What?"}`,
		"truncated": `[{"question": "What is`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseCandidates(raw)
			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, CauseUnparseableResponse, genErr.Cause)
		})
	}
}

func TestValidCandidate(t *testing.T) {
	base := models.Question{
		Question:      "Who wrote the national anthem of India?",
		Options:       []string{"Rabindranath Tagore", "Bankim Chandra Chatterjee"},
		CorrectAnswer: "Rabindranath Tagore",
	}
	assert.True(t, validCandidate(base))

	short := base
	short.Question = "  Who?    "
	assert.False(t, validCandidate(short))

	oneOption := base
	oneOption.Options = []string{"Rabindranath Tagore"}
	assert.False(t, validCandidate(oneOption))

	blankOption := base
	blankOption.Options = []string{"Rabindranath Tagore", "   "}
	assert.False(t, validCandidate(blankOption))

	notMember := base
	notMember.CorrectAnswer = "R. Tagore"
	assert.False(t, validCandidate(notMember))
}

func TestGenerate(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	llm := &fakeLLM{reply: "```json\n" + twoQuestions + "\n```"}
	g := NewGenerator(testAPIKey, llm, time.Second)
	g.now = func() time.Time { return now }

	qs, err := g.Generate(context.Background(), "geography", "southIndian", 2)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	for _, q := range qs {
		assert.True(t, q.AIGenerated)
		assert.Equal(t, now, q.CreatedAt)
		assert.Equal(t, "geography", q.Category)
		assert.Equal(t, "southIndian", q.SubDomain)
	}
	assert.Equal(t, models.DifficultyMedium, qs[0].Difficulty)
	assert.Equal(t, models.DifficultyHard, qs[1].Difficulty)

	require.Len(t, llm.requests, 1)
	assert.Contains(t, llm.requests[0].Prompt, "Generate 2 high-quality")
	assert.Contains(t, llm.requests[0].Prompt, "about southIndian (category: geography)")
	assert.NotEmpty(t, llm.requests[0].System)
}

func TestGenerateDropsNonMemberAnswers(t *testing.T) {
	llm := &fakeLLM{reply: `[{"question": "Which city is called the Pink City?", "options": ["Jaipur", "Jodhpur"], "correct_answer": "Udaipur"}]`}
	g := NewGenerator(testAPIKey, llm, time.Second)

	_, err := g.Generate(context.Background(), "geography", "statesAndCapitals", 5)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CauseNoValidQuestions, genErr.Cause)
}

func TestGenerateRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", "short-key", placeholderAPIKey} {
		llm := &fakeLLM{reply: twoQuestions}
		g := NewGenerator(key, llm, time.Second)

		_, err := g.Generate(context.Background(), "history", "", 3)
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr, "key %q", key)
		assert.Equal(t, CauseMisconfiguredKey, genErr.Cause)
		assert.Empty(t, llm.requests, "no model call for key %q", key)
	}
}

func TestGenerateClampsCount(t *testing.T) {
	llm := &fakeLLM{reply: twoQuestions}
	g := NewGenerator(testAPIKey, llm, time.Second)

	_, err := g.Generate(context.Background(), "history", "modernIndia", 500)
	require.NoError(t, err)
	assert.Contains(t, llm.requests[0].Prompt, "Generate 25 high-quality")

	_, err = g.Generate(context.Background(), "history", "modernIndia", 0)
	require.NoError(t, err)
	assert.Contains(t, llm.requests[1].Prompt, "Generate 10 high-quality")
}

func TestGenerateTimeout(t *testing.T) {
	g := NewGenerator(testAPIKey, &fakeLLM{block: true}, 10*time.Millisecond)

	_, err := g.Generate(context.Background(), "history", "modernIndia", 3)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CauseRateLimited, genErr.Cause)
}

func TestClassifyModelError(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		err  error
		want GenerationCause
	}{
		{"deadline", context.DeadlineExceeded, CauseRateLimited},
		{"429 rate", &googleapi.Error{Code: 429, Message: "Too many requests"}, CauseRateLimited},
		{"429 quota", &googleapi.Error{Code: 429, Message: "You exceeded your current quota"}, CauseQuotaExceeded},
		{"403", &googleapi.Error{Code: 403, Message: "Permission denied"}, CauseMisconfiguredKey},
		{"api key text", errors.New("API key not valid. Please pass a valid API key."), CauseMisconfiguredKey},
		{"resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), CauseQuotaExceeded},
		{"other", errors.New("connection reset by peer"), CauseProviderError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyModelError(ctx, tc.err)
			assert.Equal(t, tc.want, got.Cause)
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func TestGenerationErrorHidesProviderDetails(t *testing.T) {
	err := generationErr(CauseProviderError, errors.New("secret upstream detail"))
	assert.NotContains(t, err.UserMessage(), "secret")
	assert.Equal(t, "Failed to generate content.", err.UserMessage())
}

func TestExplain(t *testing.T) {
	llm := &fakeLLM{reply: "  Chennai is the capital.\nIt was called Madras.\nIt lies on the Coromandel coast.  "}
	g := NewGenerator(testAPIKey, llm, time.Second)

	text, err := g.Explain(context.Background(), "What is the capital of Tamil Nadu?", "Madurai", "Chennai")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Chennai is the capital."))
	assert.Contains(t, llm.requests[0].Prompt, `User's answer: "Madurai".`)
	assert.Contains(t, llm.requests[0].Prompt, `Correct answer: "Chennai".`)

	llm.reply = "   "
	_, err = g.Explain(context.Background(), "q", "a", "b")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CauseProviderError, genErr.Cause)
}

func TestStrictFilter(t *testing.T) {
	four := []string{"Jaipur", "Jodhpur", "Udaipur", "Ajmer"}
	input := []models.Question{
		{Question: "  Which city is called the Pink City?  ", Options: four, CorrectAnswer: " Jaipur "},
		{Question: "Which city is called the Blue City?", Options: []string{"Jaipur", "", "Jodhpur", "Udaipur", "Ajmer"}, CorrectAnswer: "Jodhpur", Difficulty: "extreme"},
		{Question: "Which city is called the Lake City?", Options: four[:3], CorrectAnswer: "Udaipur"},
		{Question: "Too short", Options: four, CorrectAnswer: "Jaipur"},
		{Question: strings.Repeat("Long question ", 20) + "?", Options: four, CorrectAnswer: "Jaipur"},
		{Question: "Which city is called the Golden City?", Options: four, CorrectAnswer: "Jaisalmer"},
		{Question: "Which city hosts the Ajmer Sharif Dargah?", Options: []string{"Jaipur", "Jodhpur", "Udaipur", strings.Repeat("A", 100)}, CorrectAnswer: "Jaipur"},
	}

	kept := StrictFilter(input)
	require.Len(t, kept, 2)

	assert.Equal(t, "Which city is called the Pink City?", kept[0].Question)
	assert.Equal(t, "Jaipur", kept[0].CorrectAnswer)
	assert.Equal(t, models.DifficultyMedium, kept[0].Difficulty)
	require.NotNil(t, kept[0].Validated)
	assert.True(t, *kept[0].Validated)
	assert.True(t, kept[0].AIGenerated)

	assert.Equal(t, []string{"Jaipur", "Jodhpur", "Udaipur", "Ajmer"}, kept[1].Options)
	assert.Equal(t, models.DifficultyMedium, kept[1].Difficulty)
}
