package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fintrack/api/models"
	"fintrack/api/scope"
	"fintrack/api/store"
)

// CreateGoal creates a savings goal from a multipart form; the optional
// "image" file field is stored on disk and referenced by path.
func (a *API) CreateGoal(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	if title == "" {
		respondFieldErrors(c, fieldError{Field: "title", Message: "failed on required"})
		return
	}

	priority := 0
	if raw := c.PostForm("priority"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondFieldErrors(c, fieldError{Field: "priority", Message: "must be a non-negative integer"})
			return
		}
		priority = v
	}

	owner, err := scope.CreationOwner(cl, c.PostForm("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	imagePath := ""
	if fh, err := c.FormFile("image"); err == nil {
		imagePath, err = a.Uploads.Save(fh)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	goal := &models.Goal{
		UserID:      owner,
		Title:       title,
		Description: c.PostForm("description"),
		Priority:    priority,
		Image:       imagePath,
	}
	if err := a.Store.InsertGoal(c.Request.Context(), goal); err != nil {
		a.Uploads.Remove(imagePath)
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, goal)
}

// ListGoals returns goals scoped to the caller, highest priority first.
func (a *API) ListGoals(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	filter := store.GoalFilter{UserID: scope.Owner(cl, c.Query("userId"))}
	goals, err := a.Store.ListGoals(c.Request.Context(), filter, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, goals)
}

// UpdateGoal applies a partial update; a new image replaces the old
// file, whose removal is best-effort.
func (a *API) UpdateGoal(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	goal, err := a.Store.FindGoalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if goal == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Goal not found"})
		return
	}
	if !cl.IsAdmin() && goal.UserID != cl.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	if title, set := c.GetPostForm("title"); set {
		if title == "" {
			respondFieldErrors(c, fieldError{Field: "title", Message: "failed on min"})
			return
		}
		goal.Title = title
	}
	if description, set := c.GetPostForm("description"); set {
		goal.Description = description
	}
	if raw, set := c.GetPostForm("priority"); set {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondFieldErrors(c, fieldError{Field: "priority", Message: "must be a non-negative integer"})
			return
		}
		goal.Priority = v
	}

	oldImage := ""
	if fh, err := c.FormFile("image"); err == nil {
		newPath, err := a.Uploads.Save(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		oldImage = goal.Image
		goal.Image = newPath
	}

	if err := a.Store.UpdateGoal(c.Request.Context(), goal); err != nil {
		respondError(c, err)
		return
	}
	a.Uploads.Remove(oldImage)
	respondData(c, http.StatusOK, goal)
}

// DeleteGoal removes a goal and its image file, if any.
func (a *API) DeleteGoal(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	goal, err := a.Store.FindGoalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if goal == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Goal not found"})
		return
	}
	if !cl.IsAdmin() && goal.UserID != cl.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	if err := a.Store.DeleteGoal(c.Request.Context(), goal.ID); err != nil {
		respondError(c, err)
		return
	}
	a.Uploads.Remove(goal.Image)
	respondMessage(c, "Goal deleted")
}
