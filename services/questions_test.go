package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cognigenx/internal/memstore"
	"cognigenx/models"
	"cognigenx/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testAPIKey = "test-key-0123456789abcdef"

type scriptedLLM struct {
	replies []string
	err     error
	calls   int
}

func (s *scriptedLLM) GenerateText(_ context.Context, _ services.TextRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

const mythologyBatch = `[
  {"question": "Who is the author of the Ramayana?", "options": ["Valmiki", "Vyasa", "Tulsidas", "Kalidasa"], "correct_answer": "Valmiki"},
  {"question": "How many Pandava brothers were there?", "options": ["Three", "Four", "Five", "Six"], "correct_answer": "Five"},
  {"question": "Which text has only two options here?", "options": ["Yes", "No"], "correct_answer": "Yes"}
]`

func sampleQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			Question:      "Which is the national animal of India?",
			Options:       []string{"Tiger", "Lion", "Elephant", "Peacock"},
			CorrectAnswer: "Tiger",
		}
	}
	return qs
}

func newQuestionService(store *memstore.Store, llm services.TextGenerator) *services.QuestionService {
	return services.NewQuestionService(store, services.NewGenerator(testAPIKey, llm, time.Second))
}

func TestAddQuestionsAppends(t *testing.T) {
	store := memstore.New()
	svc := newQuestionService(store, nil)
	ctx := context.Background()

	_, err := svc.AddQuestions(ctx, "general", "animals", sampleQuestions(2))
	require.NoError(t, err)
	bucket, err := svc.AddQuestions(ctx, "general", "animals", sampleQuestions(3))
	require.NoError(t, err)

	require.Len(t, bucket.Questions, 5)
	seen := map[primitive.ObjectID]bool{}
	for _, q := range bucket.Questions {
		assert.False(t, q.ID.IsZero())
		assert.False(t, q.CreatedAt.IsZero())
		seen[q.ID] = true
	}
	assert.Len(t, seen, 5, "every question gets its own id")
}

func TestAddQuestionsDropsServerOwnedFields(t *testing.T) {
	store := memstore.New()
	llm := &scriptedLLM{replies: []string{"The tiger was adopted as the national animal in 1973."}}
	svc := newQuestionService(store, llm)
	ctx := context.Background()

	validated := false
	generatedAt := time.Now()
	submitted := models.Question{
		Question:               "Which is the national animal of India?",
		Options:                []string{"Tiger", "Lion", "Elephant", "Peacock"},
		CorrectAnswer:          "Tiger",
		SubDomain:              "animals",
		Category:               "somethingElse",
		Difficulty:             "legendary",
		AIGenerated:            true,
		Validated:              &validated,
		Explanation:            "Lions are tigers, trust me",
		ExplanationGeneratedAt: &generatedAt,
	}
	bucket, err := svc.AddQuestions(ctx, "general", "animals", []models.Question{submitted})
	require.NoError(t, err)
	require.Len(t, bucket.Questions, 1)

	stored := bucket.Questions[0]
	assert.Equal(t, submitted.Question, stored.Question)
	assert.Equal(t, submitted.Options, stored.Options)
	assert.Equal(t, "Tiger", stored.CorrectAnswer)
	assert.Equal(t, "animals", stored.SubDomain)
	assert.Equal(t, "general", stored.Category)
	assert.False(t, stored.AIGenerated)
	assert.Nil(t, stored.Validated)
	assert.Empty(t, stored.Explanation)
	assert.Nil(t, stored.ExplanationGeneratedAt)
	assert.Empty(t, stored.Difficulty, "unknown difficulty is dropped")

	explanation, err := svc.ExplainAnswer(ctx, services.ExplainRequest{
		Question:      stored.Question,
		UserAnswer:    "Lion",
		CorrectAnswer: stored.CorrectAnswer,
		QuestionID:    stored.ID.Hex(),
	})
	require.NoError(t, err)
	assert.False(t, explanation.Cached)
	assert.Equal(t, "The tiger was adopted as the national animal in 1973.", explanation.Text)
	assert.Equal(t, 1, llm.calls)
}

func TestAddQuestionsKeepsKnownDifficulty(t *testing.T) {
	svc := newQuestionService(memstore.New(), nil)

	q := sampleQuestions(1)[0]
	q.Difficulty = models.DifficultyHard
	bucket, err := svc.AddQuestions(context.Background(), "general", "animals", []models.Question{q})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyHard, bucket.Questions[0].Difficulty)
}

func TestAddQuestionsValidation(t *testing.T) {
	svc := newQuestionService(memstore.New(), nil)
	ctx := context.Background()

	_, err := svc.AddQuestions(ctx, "", "animals", sampleQuestions(1))
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.AddQuestions(ctx, "general", "animals", nil)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetQuestionsFillsDefaults(t *testing.T) {
	store := memstore.New()
	svc := newQuestionService(store, nil)
	ctx := context.Background()

	_, err := svc.GetQuestions(ctx, "general", "animals")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.AddQuestions(ctx, "general", "animals", sampleQuestions(1))
	require.NoError(t, err)

	qs, err := svc.GetQuestions(ctx, "general", "animals")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.False(t, qs[0].AIGenerated)
	assert.Equal(t, models.DifficultyMedium, qs[0].Difficulty)
	require.NotNil(t, qs[0].Validated)
	assert.True(t, *qs[0].Validated)

	_, err = svc.GetQuestions(ctx, "general", "")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetRandomQuestionsFromStore(t *testing.T) {
	store := memstore.New()
	llm := &scriptedLLM{}
	svc := newQuestionService(store, llm)
	ctx := context.Background()

	_, err := svc.AddQuestions(ctx, "general", "animals", sampleQuestions(8))
	require.NoError(t, err)
	_, err = svc.AddQuestions(ctx, "general", "birds", sampleQuestions(6))
	require.NoError(t, err)

	result, err := svc.GetRandomQuestions(ctx, []string{"general", "general", " "})
	require.NoError(t, err)
	assert.Len(t, result.Questions, services.RandomQuestionLimit)
	assert.Equal(t, 14, result.TotalAvailable)
	assert.Empty(t, result.Generated)
	assert.Zero(t, llm.calls)
}

func TestGetRandomQuestionsGeneratesMissingCategories(t *testing.T) {
	store := memstore.New()
	llm := &scriptedLLM{replies: []string{"```json\n" + mythologyBatch + "\n```"}}
	svc := newQuestionService(store, llm)
	ctx := context.Background()

	_, err := svc.AddQuestions(ctx, "general", "animals", sampleQuestions(3))
	require.NoError(t, err)

	result, err := svc.GetRandomQuestions(ctx, []string{"general", "mythology"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mythology"}, result.Generated)
	assert.Equal(t, 5, result.TotalAvailable, "three stored plus two that pass the strict filter")
	assert.Len(t, result.Questions, 5)

	bucket, err := store.FindBucket(ctx, "mythology", "mythology")
	require.NoError(t, err)
	require.Len(t, bucket.Questions, 2)
	assert.True(t, bucket.Questions[0].AIGenerated)
	assert.False(t, bucket.Questions[0].ID.IsZero())
}

func TestGetRandomQuestionsSkipsFailedGeneration(t *testing.T) {
	store := memstore.New()
	svc := newQuestionService(store, &scriptedLLM{err: errors.New("quota exceeded")})
	ctx := context.Background()

	_, err := svc.GetRandomQuestions(ctx, []string{"mythology"})
	assert.ErrorIs(t, err, services.ErrNoQuestionsAvailable)

	_, err = svc.AddQuestions(ctx, "general", "animals", sampleQuestions(2))
	require.NoError(t, err)
	result, err := svc.GetRandomQuestions(ctx, []string{"mythology", "general"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalAvailable)
	assert.Empty(t, result.Generated)

	_, err = svc.GetRandomQuestions(ctx, []string{"", " "})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGenerateAndStore(t *testing.T) {
	store := memstore.New()
	svc := newQuestionService(store, &scriptedLLM{replies: []string{mythologyBatch}})
	ctx := context.Background()

	stored, err := svc.GenerateAndStore(ctx, "mythology", "hindu", 3)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, q := range stored {
		require.NotNil(t, q.Validated)
		assert.True(t, *q.Validated)
		assert.Equal(t, "hindu", q.SubDomain)
	}

	bucket, err := store.FindBucket(ctx, "mythology", "hindu")
	require.NoError(t, err)
	assert.Len(t, bucket.Questions, 2)

	_, err = svc.GenerateAndStore(ctx, "", "hindu", 3)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGenerateAndStoreMisconfigured(t *testing.T) {
	svc := services.NewQuestionService(memstore.New(), services.NewGenerator("", nil, time.Second))

	_, err := svc.GenerateAndStore(context.Background(), "mythology", "hindu", 3)
	var genErr *services.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, services.CauseMisconfiguredKey, genErr.Cause)
}

func TestExplainAnswerCaches(t *testing.T) {
	store := memstore.New()
	llm := &scriptedLLM{replies: []string{"Tigers are the national animal.\nAdopted in 1973.\nProject Tiger protects them."}}
	svc := newQuestionService(store, llm)
	ctx := context.Background()

	bucket, err := svc.AddQuestions(ctx, "general", "animals", sampleQuestions(1))
	require.NoError(t, err)
	id := bucket.Questions[0].ID.Hex()

	req := services.ExplainRequest{
		Question:      "Which is the national animal of India?",
		UserAnswer:    "Lion",
		CorrectAnswer: "Tiger",
		QuestionID:    id,
	}
	first, err := svc.ExplainAnswer(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.ExplainAnswer(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, llm.calls)

	stored, err := store.FindQuestionByID(ctx, bucket.Questions[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ExplanationGeneratedAt)
}

func TestExplainAnswerWithoutCache(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"Because."}}
	svc := newQuestionService(memstore.New(), llm)
	ctx := context.Background()

	for _, id := range []string{"", "not-an-id", primitive.NewObjectID().Hex()} {
		got, err := svc.ExplainAnswer(ctx, services.ExplainRequest{
			Question: "Q?", UserAnswer: "a", CorrectAnswer: "b", QuestionID: id,
		})
		require.NoError(t, err)
		assert.False(t, got.Cached)
	}
	assert.Equal(t, 3, llm.calls)

	_, err := svc.ExplainAnswer(ctx, services.ExplainRequest{Question: "Q?", CorrectAnswer: "b"})
	assert.ErrorIs(t, err, services.ErrValidation)
}
