package services

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"cognigenx/models"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RandomQuestionLimit caps how many questions one random draw returns
const RandomQuestionLimit = 10

// RandomQuestions is the result of a mixed draw across categories
type RandomQuestions struct {
	Questions      []models.Question `json:"questions"`
	TotalAvailable int               `json:"totalAvailable"`
	Generated      []string          `json:"generated"`
}

// ExplainRequest asks why correctAnswer answers question. QuestionID, when it names a
// stored question, enables the explanation cache.
type ExplainRequest struct {
	Question      string
	UserAnswer    string
	CorrectAnswer string
	QuestionID    string
}

type Explanation struct {
	Text   string
	Cached bool
}

// QuestionService stores, draws, generates and explains trivia questions
type QuestionService struct {
	store     TriviaStore
	generator *Generator
	now       func() time.Time
	shuffle   func(n int, swap func(i, j int))
}

func NewQuestionService(store TriviaStore, generator *Generator) *QuestionService {
	return &QuestionService{
		store:     store,
		generator: generator,
		now:       time.Now,
		shuffle:   rand.Shuffle,
	}
}

// AddQuestions appends questions to the (category, domain) bucket, creating it on first use
func (s *QuestionService) AddQuestions(ctx context.Context, category, domain string, questions []models.Question) (*models.TriviaCategory, error) {
	category = strings.TrimSpace(category)
	domain = strings.TrimSpace(domain)
	if category == "" || domain == "" || len(questions) == 0 {
		return nil, validationErr("Invalid input data. Category, domain, and questions are required.")
	}

	now := s.now()
	prepared := lo.Map(questions, func(q models.Question, _ int) models.Question {
		return submittedQuestion(q, category, now)
	})
	return s.store.AppendQuestions(ctx, category, domain, prepared)
}

// submittedQuestion keeps only the fields a client may author. Generation and
// explanation metadata is owned by the server.
func submittedQuestion(q models.Question, category string, now time.Time) models.Question {
	stored := models.Question{
		ID:            primitive.NewObjectID(),
		Question:      q.Question,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		SubDomain:     q.SubDomain,
		Category:      category,
		CreatedAt:     now,
		AIGenerated:   false,
	}
	if models.ValidDifficulty(q.Difficulty) {
		stored.Difficulty = q.Difficulty
	}
	return stored
}

// GetQuestions returns every question in the bucket with missing metadata defaulted
func (s *QuestionService) GetQuestions(ctx context.Context, category, subDomain string) ([]models.Question, error) {
	if strings.TrimSpace(category) == "" || strings.TrimSpace(subDomain) == "" {
		return nil, validationErr("Category and subDomain are required.")
	}
	bucket, err := s.store.FindBucket(ctx, category, subDomain)
	if err != nil {
		return nil, err
	}
	if len(bucket.Questions) == 0 {
		return nil, ErrNotFound
	}
	return lo.Map(bucket.Questions, func(q models.Question, _ int) models.Question {
		return q.WithDefaults()
	}), nil
}

// GetRandomQuestions pools the stored questions of every requested category, generating
// a batch for categories that have none, and draws up to RandomQuestionLimit of them.
func (s *QuestionService) GetRandomQuestions(ctx context.Context, categories []string) (*RandomQuestions, error) {
	categories = lo.Compact(lo.Uniq(lo.Map(categories, func(c string, _ int) string {
		return strings.TrimSpace(c)
	})))
	if len(categories) == 0 {
		return nil, validationErr("Categories are required.")
	}

	buckets, err := s.store.FindBucketsByCategory(ctx, categories)
	if err != nil {
		return nil, err
	}
	byCategory := lo.GroupBy(buckets, func(b models.TriviaCategory) string { return b.Category })

	var pool []models.Question
	generated := []string{}
	for _, category := range categories {
		stored := lo.FlatMap(byCategory[category], func(b models.TriviaCategory, _ int) []models.Question {
			return b.Questions
		})
		if len(stored) > 0 {
			pool = append(pool, stored...)
			continue
		}

		fresh, err := s.GenerateAndStore(ctx, category, category, DefaultQuestionCount)
		if err != nil {
			log.Printf("Skipping generation for category %q: %v", category, err)
			continue
		}
		if len(fresh) == 0 {
			continue
		}
		pool = append(pool, fresh...)
		generated = append(generated, category)
	}

	if len(pool) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	drawn := lo.Map(pool[:min(len(pool), RandomQuestionLimit)], func(q models.Question, _ int) models.Question {
		return q.WithDefaults()
	})
	return &RandomQuestions{
		Questions:      drawn,
		TotalAvailable: len(pool),
		Generated:      generated,
	}, nil
}

// GenerateAndStore runs the generation pipeline and persists the questions that pass the
// strict filter. It returns what was stored, which may be empty.
func (s *QuestionService) GenerateAndStore(ctx context.Context, category, subDomain string, count int) ([]models.Question, error) {
	category = strings.TrimSpace(category)
	subDomain = strings.TrimSpace(subDomain)
	if category == "" {
		return nil, validationErr("Category is required.")
	}
	if subDomain == "" {
		subDomain = category
	}
	if count < 0 || count > MaxQuestionCount {
		return nil, validationErr("count must be between 1 and %d", MaxQuestionCount)
	}

	candidates, err := s.generator.Generate(ctx, category, subDomain, count)
	if err != nil {
		return nil, err
	}
	kept := StrictFilter(candidates)
	if len(kept) == 0 {
		log.Printf("All %d generated questions for %s/%s failed the quality filter", len(candidates), category, subDomain)
		return kept, nil
	}
	for i := range kept {
		kept[i].ID = primitive.NewObjectID()
	}

	if _, err := s.store.AppendQuestions(ctx, category, subDomain, kept); err != nil {
		return nil, err
	}
	log.Printf("Stored %d AI-generated questions in %s/%s", len(kept), category, subDomain)
	return kept, nil
}

// ExplainAnswer returns the cached explanation for a stored question when there is one,
// otherwise generates it and caches it on the question.
func (s *QuestionService) ExplainAnswer(ctx context.Context, req ExplainRequest) (*Explanation, error) {
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.UserAnswer) == "" || strings.TrimSpace(req.CorrectAnswer) == "" {
		return nil, validationErr("Missing required fields: question, userAnswer, correctAnswer")
	}

	questionID, idErr := primitive.ObjectIDFromHex(strings.TrimSpace(req.QuestionID))
	cacheable := req.QuestionID != "" && idErr == nil

	if cacheable {
		stored, err := s.store.FindQuestionByID(ctx, questionID)
		switch {
		case err == nil && stored.Explanation != "":
			return &Explanation{Text: stored.Explanation, Cached: true}, nil
		case errors.Is(err, ErrNotFound):
			cacheable = false
		case err != nil:
			log.Printf("Explanation cache lookup failed for %s: %v", questionID.Hex(), err)
		}
	}

	text, err := s.generator.Explain(ctx, req.Question, req.UserAnswer, req.CorrectAnswer)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.store.SetExplanation(ctx, questionID, text, s.now()); err != nil {
			log.Printf("Failed to cache explanation for %s: %v", questionID.Hex(), err)
		}
	}
	return &Explanation{Text: text}, nil
}
