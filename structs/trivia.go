package structs

import "cognigenx/models"

type AddQuestionsRequest struct {
	Category  string            `json:"category"`
	Domain    string            `json:"domain"`
	Questions []models.Question `json:"questions"`
}

type LogActivityRequest struct {
	Category string `json:"category"`
	Domain   string `json:"domain"`
}

type GenerateQuestionsRequest struct {
	Category  string `json:"category" binding:"required"`
	SubDomain string `json:"subDomain"`
	Count     int    `json:"count" binding:"omitempty,min=1,max=25"`
}

type ExplanationRequest struct {
	Question      string `json:"question" binding:"required"`
	UserAnswer    string `json:"userAnswer" binding:"required"`
	CorrectAnswer string `json:"correctAnswer" binding:"required"`
	QuestionID    string `json:"questionId"`
}

type CategorizeRequest struct {
	Title   string `json:"title" binding:"required_without=Snippet"`
	Snippet string `json:"snippet"`
}
