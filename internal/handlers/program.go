package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hearthside/carepath-backend/internal/services"
)

type ProgramHandler struct {
	programService services.ProgramService
}

func NewProgramHandler(programService services.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day"})
		return 0, false
	}
	return day, true
}

func (ph *ProgramHandler) GetProgram(c *gin.Context) {
	view, err := ph.programService.GetProgram(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ph *ProgramHandler) GetDay(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	view, err := ph.programService.GetDay(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ph *ProgramHandler) CompleteVideo(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req struct {
		WatchedRatio float64 `json:"watched_ratio"`
		Ended        bool    `json:"ended"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := ph.programService.CompleteVideo(c.Request.Context(), day, req.WatchedRatio, req.Ended)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ph *ProgramHandler) SubmitTask(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("taskID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	var req struct {
		Response json.RawMessage `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := ph.programService.SubmitTaskResponse(c.Request.Context(), day, taskID, req.Response)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
