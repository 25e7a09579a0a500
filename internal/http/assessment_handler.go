package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"burnout-assess/internal/service"
)

// AssessmentHandler expone el flujo de evaluacion para el owner autenticado.
type AssessmentHandler struct {
	logger *zap.Logger
	svc    *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, svc: svc}
}

// Questions maneja GET /assessment/questions.
func (h *AssessmentHandler) Questions(c *gin.Context) {
	questions := h.svc.Questions()
	c.JSON(http.StatusOK, gin.H{"questions": questions, "total": len(questions)})
}

// Start maneja POST /assessment/sessions.
func (h *AssessmentHandler) Start(c *gin.Context) {
	res, err := h.svc.Start(c.Request.Context(), authUserID(c))
	if err != nil {
		h.writeError(c, "start assessment", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session":          res.Session,
		"current_question": res.CurrentQuestion,
		"total_questions":  len(h.svc.Questions()),
	})
}

// SubmitAnswer maneja POST /assessment/answers.
func (h *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionID int    `json:"question_id" binding:"required"`
		Answer     string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.svc.SubmitAnswer(c.Request.Context(), authUserID(c), req.QuestionID, req.Answer)
	if err != nil {
		h.writeError(c, "submit answer", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Current maneja GET /assessment/current.
func (h *AssessmentHandler) Current(c *gin.Context) {
	res, err := h.svc.Current(c.Request.Context(), authUserID(c))
	if err != nil {
		h.writeError(c, "current assessment", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// History maneja GET /assessment/sessions.
func (h *AssessmentHandler) History(c *gin.Context) {
	sessions, err := h.svc.History(c.Request.Context(), authUserID(c))
	if err != nil {
		h.writeError(c, "list assessments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// Detail maneja GET /assessment/sessions/:id.
func (h *AssessmentHandler) Detail(c *gin.Context) {
	res, err := h.svc.Detail(c.Request.Context(), authUserID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, "assessment detail", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete maneja DELETE /assessment/sessions/:id.
func (h *AssessmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), authUserID(c), c.Param("id")); err != nil {
		h.writeError(c, "delete assessment", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Analyze maneja POST /assessment/analyze.
func (h *AssessmentHandler) Analyze(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.svc.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, "analyze text", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeError traduce errores del servicio; los de persistencia salen como 500 generico.
func (h *AssessmentHandler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrAnswerRequired),
		errors.Is(err, service.ErrQuestionOutOfOrder),
		errors.Is(err, service.ErrTextRequired),
		errors.Is(err, service.ErrOwnerRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionComplete),
		errors.Is(err, service.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + op})
	}
}
