package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether d is one of the known difficulty tags
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single multiple-choice trivia question.
//
// CorrectAnswer is stored as "correct_answer". Older clients and documents use
// "correctAnswer"; both names are accepted on input and both are written on JSON output.
type Question struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Question               string             `bson:"question" json:"question"`
	Options                []string           `bson:"options" json:"options"`
	CorrectAnswer          string             `bson:"correct_answer" json:"correct_answer"`
	SubDomain              string             `bson:"subDomain,omitempty" json:"subDomain,omitempty"`
	Category               string             `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	AIGenerated            bool               `bson:"aiGenerated,omitempty" json:"aiGenerated"`
	Difficulty             string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Validated              *bool              `bson:"validated,omitempty" json:"validated,omitempty"`
	Explanation            string             `bson:"explanation,omitempty" json:"explanation,omitempty"`
	ExplanationGeneratedAt *time.Time         `bson:"explanationGeneratedAt,omitempty" json:"explanationGeneratedAt,omitempty"`
}

// questionFields has Question's layout without its (un)marshal methods
type questionFields Question

func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		questionFields
		CorrectAnswerAlias string `json:"correctAnswer"`
	}{questionFields(q), q.CorrectAnswer})
}

func (q *Question) UnmarshalJSON(data []byte) error {
	aux := struct {
		*questionFields
		CorrectAnswerAlias string `json:"correctAnswer"`
	}{questionFields: (*questionFields)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if q.CorrectAnswer == "" {
		q.CorrectAnswer = aux.CorrectAnswerAlias
	}
	return nil
}

func (q *Question) UnmarshalBSON(data []byte) error {
	var doc struct {
		Fields       questionFields `bson:",inline"`
		LegacyAnswer string         `bson:"correctAnswer,omitempty"`
	}
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	*q = Question(doc.Fields)
	if q.CorrectAnswer == "" {
		q.CorrectAnswer = doc.LegacyAnswer
	}
	return nil
}

// WithDefaults fills the metadata fields that older documents may lack
func (q Question) WithDefaults() Question {
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}
	if q.Validated == nil {
		validated := true
		q.Validated = &validated
	}
	return q
}

// TriviaCategory is a bucket of questions for one (category, domain) pair
type TriviaCategory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Category  string             `bson:"category" json:"category"`
	Domain    string             `bson:"domain" json:"domain"`
	Questions []Question         `bson:"questions" json:"questions"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
