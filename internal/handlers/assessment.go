package handlers

import (
	"context"
	"net/http"

	"clinscore/internal/models"
	"clinscore/internal/repository"
	"clinscore/internal/scoring"
	"clinscore/internal/services"
	"clinscore/internal/session"
	"clinscore/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActiveSessionKey is the cookie session and gin context key holding the id
// of the caller's assessment session.
const ActiveSessionKey = "assessment_id"

// ResultSaver persists completed assessments.
type ResultSaver interface {
	Save(ctx context.Context, result *models.AssessmentResult) error
}

type AssessmentHandler struct {
	log   *zap.Logger
	store *services.SessionStore
	saver ResultSaver
}

// NewAssessmentHandler wires the session endpoints. saver may be nil, in
// which case completed sessions are not persisted.
func NewAssessmentHandler(log *zap.Logger, store *services.SessionStore, saver ResultSaver) *AssessmentHandler {
	return &AssessmentHandler{log: log, store: store, saver: saver}
}

type stepView struct {
	SessionID      string                 `json:"sessionId"`
	InstrumentID   string                 `json:"instrumentId"`
	ClientName     string                 `json:"clientName"`
	Step           session.Step           `json:"step"`
	TotalSteps     int                    `json:"totalSteps"`
	Progress       float64                `json:"progress"`
	Instructions   string                 `json:"instructions,omitempty"`
	Answers        models.Answers         `json:"answers"`
	Completed      bool                   `json:"completed"`
	Result         *scoring.Result        `json:"result,omitempty"`
	Interpretation *models.Interpretation `json:"interpretation,omitempty"`
}

func newStepView(e *services.Entry) (stepView, error) {
	s := e.Session
	v := stepView{
		SessionID:    e.ID,
		InstrumentID: s.InstrumentID(),
		ClientName:   e.ClientName,
		Step:         s.Current(),
		TotalSteps:   s.TotalSteps(),
		Progress:     s.Progress(),
		Answers:      s.Answers(),
		Completed:    s.Completed(),
	}
	if v.Step.Kind == session.StepInstructions {
		v.Instructions = s.Instructions()
	}
	if s.Completed() {
		result, interp, err := s.Result()
		if err != nil {
			return stepView{}, err
		}
		v.Result = &result
		v.Interpretation = &interp
	}
	return v, nil
}

type startRequest struct {
	InstrumentID string `json:"instrumentId" binding:"required"`
	ClientName   string `json:"clientName" binding:"required"`
}

// Start opens a new session and makes it the caller's active one. Any
// previous session of the caller is discarded.
func (h *AssessmentHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "instrumentId and clientName are required")
		return
	}
	clientName, ok := utils.NormalizeClientName(req.ClientName)
	if !ok {
		badRequest(c, "invalid client name")
		return
	}

	id, err := h.store.Create(req.InstrumentID, clientName)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	cookie := sessions.Default(c)
	if prev, ok := cookie.Get(ActiveSessionKey).(string); ok && prev != id {
		h.store.Delete(prev)
	}
	cookie.Set(ActiveSessionKey, id)
	if err := cookie.Save(); err != nil {
		h.store.Delete(id)
		respondError(c, h.log, err)
		return
	}

	h.update(c, id, http.StatusCreated, func(*services.Entry) error { return nil })
}

// Show returns the current step of the active session.
func (h *AssessmentHandler) Show(c *gin.Context) {
	h.withActive(c, func(id string) {
		h.update(c, id, http.StatusOK, func(*services.Entry) error { return nil })
	})
}

type answerRequest struct {
	QuestionID *int `json:"questionId" binding:"required"`
	Value      *int `json:"value" binding:"required"`
}

// Answer records a response for the current question.
func (h *AssessmentHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "questionId and value are required")
		return
	}

	h.withActive(c, func(id string) {
		h.update(c, id, http.StatusOK, func(e *services.Entry) error {
			if !e.Session.Answer(*req.QuestionID, *req.Value) {
				return errAnswerRejected
			}
			return nil
		})
	})
}

// Advance moves to the next step. Reaching the results step persists the
// assessment once.
func (h *AssessmentHandler) Advance(c *gin.Context) {
	h.withActive(c, func(id string) {
		h.update(c, id, http.StatusOK, func(e *services.Entry) error {
			return e.Session.Advance()
		})
	})
}

// Retreat moves back one step.
func (h *AssessmentHandler) Retreat(c *gin.Context) {
	h.withActive(c, func(id string) {
		h.update(c, id, http.StatusOK, func(e *services.Entry) error {
			e.Session.Retreat()
			return nil
		})
	})
}

// Reset clears all answers and returns to the first step.
func (h *AssessmentHandler) Reset(c *gin.Context) {
	h.withActive(c, func(id string) {
		h.update(c, id, http.StatusOK, func(e *services.Entry) error {
			e.Session.Reset()
			e.Saved = false
			return nil
		})
	})
}

// Result returns the scored outcome of a completed session.
func (h *AssessmentHandler) Result(c *gin.Context) {
	h.withActive(c, func(id string) {
		var view stepView
		err := h.store.Update(id, func(e *services.Entry) error {
			var err error
			view, err = newStepView(e)
			return err
		})
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		if !view.Completed {
			c.JSON(http.StatusConflict, gin.H{"error": "assessment session is still in progress"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": view.Result, "interpretation": view.Interpretation})
	})
}

func (h *AssessmentHandler) withActive(c *gin.Context, fn func(id string)) {
	id := c.GetString(ActiveSessionKey)
	if id == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active assessment session"})
		return
	}
	fn(id)
}

// update applies fn to the session, then renders its step view with status.
func (h *AssessmentHandler) update(c *gin.Context, id string, status int, fn func(e *services.Entry) error) {
	var (
		view   stepView
		record *models.AssessmentResult
	)
	err := h.store.Update(id, func(e *services.Entry) error {
		if err := fn(e); err != nil {
			return err
		}
		var err error
		if view, err = newStepView(e); err != nil {
			return err
		}
		if view.Completed && !e.Saved && h.saver != nil {
			record, err = repository.NewResultRecord(e.ClientName, *view.Result, *view.Interpretation, view.Answers)
			if err != nil {
				return err
			}
			e.Saved = true
		}
		return nil
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if record != nil {
		if err := h.saver.Save(c.Request.Context(), record); err != nil {
			_ = h.store.Update(id, func(e *services.Entry) error {
				e.Saved = false
				return nil
			})
			respondError(c, h.log, err)
			return
		}
		h.log.Info("Assessment result saved",
			zap.String("session_id", id),
			zap.String("instrument", record.InstrumentID),
			zap.Uint("result_id", record.ID),
		)
	}
	c.JSON(status, view)
}
