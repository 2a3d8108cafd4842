package controllers

import (
	"errors"
	"net/http"
	"strings"

	"cognigenx/services"
	"cognigenx/structs"

	"github.com/gin-gonic/gin"
)

type TriviaController struct {
	questions *services.QuestionService
}

func NewTriviaController(questions *services.QuestionService) *TriviaController {
	return &TriviaController{questions: questions}
}

func (t *TriviaController) AddQuestions(c *gin.Context) {
	var request structs.AddQuestionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindError(c, err)
		return
	}

	bucket, err := t.questions.AddQuestions(c.Request.Context(), request.Category, request.Domain, request.Questions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Questions added successfully.",
		"data":    bucket,
	})
}

func (t *TriviaController) GetQuestions(c *gin.Context) {
	questions, err := t.questions.GetQuestions(c.Request.Context(), c.Query("category"), c.Query("subDomain"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorBody("No questions found for the given category and subdomain."))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "questions": questions})
}

func (t *TriviaController) GetRandomQuestions(c *gin.Context) {
	raw := c.Query("categories")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, errorBody("Categories are required."))
		return
	}

	result, err := t.questions.GetRandomQuestions(c.Request.Context(), strings.Split(raw, ","))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"questions":      result.Questions,
		"totalAvailable": result.TotalAvailable,
		"generated":      result.Generated,
	})
}

func (t *TriviaController) GenerateQuestions(c *gin.Context) {
	var request structs.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindError(c, err)
		return
	}

	questions, err := t.questions.GenerateAndStore(c.Request.Context(), request.Category, request.SubDomain, request.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"questions": questions,
		"count":     len(questions),
	})
}

func (t *TriviaController) GenerateExplanation(c *gin.Context) {
	var request structs.ExplanationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Missing required fields: question, userAnswer, correctAnswer"))
		return
	}

	explanation, err := t.questions.ExplainAnswer(c.Request.Context(), services.ExplainRequest{
		Question:      request.Question,
		UserAnswer:    request.UserAnswer,
		CorrectAnswer: request.CorrectAnswer,
		QuestionID:    request.QuestionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"explanation": explanation.Text,
		"cached":      explanation.Cached,
	})
}

func Categorize(c *gin.Context) {
	var request structs.CategorizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": services.Categorize(request.Title, request.Snippet)})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
