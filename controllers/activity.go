package controllers

import (
	"net/http"

	"cognigenx/services"
	"cognigenx/structs"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	activity *services.ActivityService
}

func NewActivityController(activity *services.ActivityService) *ActivityController {
	return &ActivityController{activity: activity}
}

func (a *ActivityController) LogActivity(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var request structs.LogActivityRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindError(c, err)
		return
	}

	if err := a.activity.LogActivity(c.Request.Context(), user.ID, request.Category, request.Domain); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Activity logged successfully."})
}

func (a *ActivityController) GetPreferences(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	preferences, err := a.activity.GetPreferences(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": preferences})
}
