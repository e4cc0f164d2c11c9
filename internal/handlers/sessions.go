package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ccis-go/internal/ccis"
	"ccis-go/internal/config"
	"ccis-go/internal/repository"
	"ccis-go/internal/services"
	sess "ccis-go/internal/session"
)

type SessionHandler struct {
	log      *zap.Logger
	notifier *services.Notifier
}

func NewSessionHandler(log *zap.Logger, notifier *services.Notifier) *SessionHandler {
	return &SessionHandler{log: log, notifier: notifier}
}

type createSessionRequest struct {
	PersonID           string `json:"personId" binding:"required"`
	CompetencyID       string `json:"competencyId" binding:"required"`
	SessionType        string `json:"sessionType"`
	MaxDurationMinutes int    `json:"maxDurationMinutes"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	person, err := ccis.NewPersonID(req.PersonID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	competency, err := ccis.NewCompetencyID(req.CompetencyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	maxDuration := req.MaxDurationMinutes
	if maxDuration == 0 {
		maxDuration = config.Conf.Assessment.DefaultMaxDurationMinutes
	}

	s, err := sess.NewAssessmentSession(sess.NewSessionParams{
		Person:             person,
		Competency:         competency,
		SessionType:        req.SessionType,
		MaxDurationMinutes: maxDuration,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := repository.CreateSession(c.Request.Context(), s); err != nil {
		h.log.Error("Failed to persist new session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, s.Progress())
}

// mutate loads the session, applies op, saves it and publishes the drained
// events. Every lifecycle endpoint funnels through here.
func (h *SessionHandler) mutate(c *gin.Context, op func(*sess.AssessmentSession) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	s, version, err := repository.GetSession(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := op(s); err != nil {
		respondDomainError(c, err)
		return
	}

	if err := repository.UpdateSession(c.Request.Context(), s, version); err != nil {
		if err == repository.ErrStaleSession {
			c.JSON(http.StatusConflict, gin.H{"error": "session was modified concurrently, retry"})
			return
		}
		h.log.Error("Failed to persist session", zap.Error(err), zap.String("sessionID", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}

	h.notifier.Publish(s.DrainEvents())
	c.JSON(http.StatusOK, s.Progress())
}

func (h *SessionHandler) Start(c *gin.Context) {
	h.mutate(c, func(s *sess.AssessmentSession) error { return s.Start() })
}

func (h *SessionHandler) Pause(c *gin.Context) {
	h.mutate(c, func(s *sess.AssessmentSession) error { return s.Pause() })
}

func (h *SessionHandler) Resume(c *gin.Context) {
	h.mutate(c, func(s *sess.AssessmentSession) error { return s.Resume() })
}

func (h *SessionHandler) Complete(c *gin.Context) {
	h.mutate(c, func(s *sess.AssessmentSession) error { return s.Complete() })
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *SessionHandler) Terminate(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.mutate(c, func(s *sess.AssessmentSession) error { return s.Terminate(req.Reason) })
}

func (h *SessionHandler) MarkUnderReview(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.mutate(c, func(s *sess.AssessmentSession) error { return s.MarkUnderReview(req.Reason) })
}

func (h *SessionHandler) Progress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	s, _, err := repository.GetSession(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Progress())
}

func (h *SessionHandler) Analytics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	s, _, err := repository.GetSession(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Analytics())
}
