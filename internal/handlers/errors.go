package handlers

import (
	"errors"
	"net/http"

	"clinscore/internal/instruments"
	"clinscore/internal/services"
	"clinscore/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errAnswerRejected = errors.New("answer rejected: not the current question or not a valid option")

// respondError maps engine errors onto HTTP statuses. Anything unrecognised
// is logged and reported as a 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var unknown *instruments.UnknownInstrumentError
	var required *session.AnswerRequiredError
	var invalid *instruments.InvalidAnswerError

	switch {
	case errors.As(err, &unknown):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errAnswerRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"questionId": invalid.QuestionID,
		})
	case errors.As(err, &required):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"questionId": required.QuestionID,
		})
	default:
		log.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
