package handlers

import (
	"net/http"

	"clinscore/internal/instruments"
	"clinscore/internal/models"
	"clinscore/internal/scoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InstrumentsHandler struct {
	log *zap.Logger
}

func NewInstrumentsHandler(log *zap.Logger) *InstrumentsHandler {
	return &InstrumentsHandler{log: log}
}

// List searches the catalog with the q, letter and category query params.
func (h *InstrumentsHandler) List(c *gin.Context) {
	found := instruments.Search(c.Query("q"), instruments.Filter{
		Letter:   c.Query("letter"),
		Category: c.Query("category"),
	})
	c.JSON(http.StatusOK, gin.H{
		"instruments": found,
		"categories":  instruments.Categories(),
	})
}

// Get returns an instrument with its instructions and questions.
func (h *InstrumentsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	inst, err := instruments.Get(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	questions, err := instruments.Questions(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	instructions, err := instruments.Instructions(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"instrument":   inst,
		"instructions": instructions,
		"questions":    questions,
	})
}

// Bands returns the numeric band table of an instrument.
func (h *InstrumentsHandler) Bands(c *gin.Context) {
	bands, err := scoring.Bands(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	low, high := bands.Range()
	c.JSON(http.StatusOK, gin.H{"min": low, "max": high, "bands": bands})
}

type scoreRequest struct {
	Answers models.Answers `json:"answers"`
}

// Score evaluates an ad-hoc answer set without a session.
func (h *InstrumentsHandler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Answers == nil {
		req.Answers = models.Answers{}
	}

	result, interp, err := scoring.Evaluate(c.Param("id"), req.Answers)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "interpretation": interp})
}
