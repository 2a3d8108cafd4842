package db

import (
	"context"
	"errors"
	"log"
	"time"

	"cognigenx/models"
	"cognigenx/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type starterBucket struct {
	Category  string
	Domain    string
	Questions []models.Question
}

func question(text, answer string, options ...string) models.Question {
	return models.Question{
		Question:      text,
		Options:       options,
		CorrectAnswer: answer,
		Difficulty:    models.DifficultyEasy,
	}
}

var starterBuckets = []starterBucket{
	{
		Category: "geography",
		Domain:   "statesAndCapitals",
		Questions: []models.Question{
			question("What is the capital of Karnataka?", "Bengaluru", "Mysuru", "Bengaluru", "Mangaluru", "Hubballi"),
			question("Which city is the capital of Rajasthan?", "Jaipur", "Jodhpur", "Udaipur", "Jaipur", "Ajmer"),
			question("Dispur is the capital of which state?", "Assam", "Assam", "Meghalaya", "Tripura", "Manipur"),
		},
	},
	{
		Category: "history",
		Domain:   "modernIndia",
		Questions: []models.Question{
			question("In which year did India gain independence?", "1947", "1945", "1947", "1950", "1942"),
			question("Who led the Salt March to Dandi in 1930?", "Mahatma Gandhi", "Jawaharlal Nehru", "Mahatma Gandhi", "Subhas Chandra Bose", "Sardar Patel"),
			question("Who was the first Prime Minister of India?", "Jawaharlal Nehru", "Jawaharlal Nehru", "Lal Bahadur Shastri", "Indira Gandhi", "Rajendra Prasad"),
		},
	},
	{
		Category: "entertainment",
		Domain:   "bollywood",
		Questions: []models.Question{
			question("Which 1975 film features the characters Jai and Veeru?", "Sholay", "Deewaar", "Sholay", "Zanjeer", "Don"),
			question("Who sang the song 'Lag Jaa Gale' from Woh Kaun Thi?", "Lata Mangeshkar", "Asha Bhosle", "Lata Mangeshkar", "Geeta Dutt", "Shamshad Begum"),
		},
	},
}

// SeedTrivia inserts the starter buckets that do not exist yet and returns how many it created
func SeedTrivia(ctx context.Context, store services.TriviaStore) (int, error) {
	created := 0
	now := time.Now()
	for _, b := range starterBuckets {
		_, err := store.FindBucket(ctx, b.Category, b.Domain)
		if err == nil {
			continue
		}
		if !errors.Is(err, services.ErrNotFound) {
			return created, err
		}

		questions := make([]models.Question, len(b.Questions))
		for i, q := range b.Questions {
			q.ID = primitive.NewObjectID()
			q.Category = b.Category
			q.SubDomain = b.Domain
			q.CreatedAt = now
			questions[i] = q
		}
		if _, err := store.AppendQuestions(ctx, b.Category, b.Domain, questions); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		log.Printf("Seeded %d trivia categories", created)
	}
	return created, nil
}
