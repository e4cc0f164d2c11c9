package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ccis-go/internal/models"
	"ccis-go/internal/repository"
	"ccis-go/internal/services"
	sess "ccis-go/internal/session"
)

// InteractionHandler ingests the task player's telemetry and turns completed
// interactions into behavioral signals on the owning session.
type InteractionHandler struct {
	log      *zap.Logger
	notifier *services.Notifier
	tiers    *models.TierSet
}

func NewInteractionHandler(log *zap.Logger, notifier *services.Notifier, tiers *models.TierSet) *InteractionHandler {
	return &InteractionHandler{log: log, notifier: notifier, tiers: tiers}
}

type createInteractionRequest struct {
	TaskID           string `json:"taskId" binding:"required"`
	Tier             string `json:"tier" binding:"required"`
	ScaffoldingLevel int    `json:"scaffoldingLevel"`
}

func (h *InteractionHandler) Create(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	var req createInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tier, ok := h.tiers.Find(req.Tier)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty tier"})
		return
	}

	s, version, err := repository.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if s.Status() != sess.StatusActive {
		respondDomainError(c, &sess.StateError{
			Entity: "assessment session",
			Status: string(s.Status()),
			Op:     "start interaction",
		})
		return
	}

	ti, err := sess.NewTaskInteraction(sess.NewInteractionParams{
		SessionID:   sessionID,
		TaskID:      req.TaskID,
		Person:      s.Person(),
		Competency:  s.Competency(),
		Tier:        tier,
		Scaffolding: req.ScaffoldingLevel,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	s.NoteInteractionStarted()
	if err := repository.UpdateSession(c.Request.Context(), s, version); err != nil {
		h.log.Error("Failed to persist session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	if err := repository.SaveInteraction(c.Request.Context(), ti); err != nil {
		h.log.Error("Failed to persist interaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create interaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"interactionId": ti.ID(),
		"sessionId":     ti.SessionID(),
		"taskId":        ti.TaskID(),
		"status":        ti.Status(),
		"startedAt":     ti.StartedAt(),
	})
}

// record loads the interaction, applies op and saves it back. Shared by every
// telemetry endpoint.
func (h *InteractionHandler) record(c *gin.Context, op func(*sess.TaskInteraction) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interaction id"})
		return
	}

	ti, err := repository.GetInteraction(c.Request.Context(), id, h.tiers)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := op(ti); err != nil {
		respondDomainError(c, err)
		return
	}

	if err := repository.SaveInteraction(c.Request.Context(), ti); err != nil {
		h.log.Error("Failed to persist interaction", zap.Error(err), zap.String("interactionID", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save interaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interactionId": ti.ID(),
		"status":        ti.Status(),
		"flags":         ti.Flags(),
	})
}

func (h *InteractionHandler) RecordHint(c *gin.Context) {
	var hint models.HintRequest
	if err := c.ShouldBindJSON(&hint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.record(c, func(ti *sess.TaskInteraction) error { return ti.RecordHintRequest(hint) })
}

func (h *InteractionHandler) RecordError(c *gin.Context) {
	var recovery models.ErrorRecovery
	if err := c.ShouldBindJSON(&recovery); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.record(c, func(ti *sess.TaskInteraction) error { return ti.RecordErrorRecovery(recovery) })
}

func (h *InteractionHandler) RecordSelfAssessment(c *gin.Context) {
	var sa models.SelfAssessment
	if err := c.ShouldBindJSON(&sa); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.record(c, func(ti *sess.TaskInteraction) error { return ti.RecordSelfAssessment(sa) })
}

func (h *InteractionHandler) RecordResourceAccess(c *gin.Context) {
	var ra models.ResourceAccess
	if err := c.ShouldBindJSON(&ra); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.record(c, func(ti *sess.TaskInteraction) error { return ti.RecordResourceAccess(ra) })
}

func (h *InteractionHandler) RecordConsultation(c *gin.Context) {
	var pc models.PeerConsultation
	if err := c.ShouldBindJSON(&pc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.record(c, func(ti *sess.TaskInteraction) error { return ti.RecordPeerConsultation(pc) })
}

func (h *InteractionHandler) Abandon(c *gin.Context) {
	h.record(c, func(ti *sess.TaskInteraction) error { return ti.Abandon() })
}

func (h *InteractionHandler) FlagForReview(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.record(c, func(ti *sess.TaskInteraction) error { return ti.FlagForReview(req.Reason) })
}

type completeInteractionRequest struct {
	Accuracy         float64 `json:"accuracy"`
	ActualDifficulty float64 `json:"actualDifficulty"`
}

// Complete closes the interaction, derives its behavioral signal and feeds
// the signal to the owning session in one request.
func (h *InteractionHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interaction id"})
		return
	}

	var req completeInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ti, err := repository.GetInteraction(c.Request.Context(), id, h.tiers)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := ti.Complete(req.Accuracy, req.ActualDifficulty); err != nil {
		respondDomainError(c, err)
		return
	}

	sig, err := ti.GenerateBehavioralSignal()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	s, version, err := repository.GetSession(c.Request.Context(), ti.SessionID())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if err := s.AddBehavioralSignal(sig); err != nil {
		respondDomainError(c, err)
		return
	}

	if err := repository.SaveInteraction(c.Request.Context(), ti); err != nil {
		h.log.Error("Failed to persist interaction", zap.Error(err), zap.String("interactionID", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save interaction"})
		return
	}
	if err := repository.SaveSignal(c.Request.Context(), ti.SessionID(), ti.ID(), ti.Person(), ti.Competency(), sig); err != nil {
		h.log.Error("Failed to persist signal", zap.Error(err), zap.String("interactionID", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save signal"})
		return
	}
	if err := repository.UpdateSession(c.Request.Context(), s, version); err != nil {
		if err == repository.ErrStaleSession {
			c.JSON(http.StatusConflict, gin.H{"error": "session was modified concurrently, retry"})
			return
		}
		h.log.Error("Failed to persist session", zap.Error(err), zap.String("sessionID", ti.SessionID().String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}

	h.notifier.Publish(s.DrainEvents())

	c.JSON(http.StatusOK, gin.H{
		"interactionId": ti.ID(),
		"status":        ti.Status(),
		"signal":        sig,
		"session":       s.Progress(),
	})
}

// Signal exposes the derived signal of a completed interaction without
// mutating anything, for clients replaying history.
func (h *InteractionHandler) Signal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interaction id"})
		return
	}

	ti, err := repository.GetInteraction(c.Request.Context(), id, h.tiers)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	sig, err := ti.GenerateBehavioralSignal()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sig)
}
