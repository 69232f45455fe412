package http

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/service"
)

// CopilotHandler expone el pipeline de perfil y los endpoints de texto.
type CopilotHandler struct {
	logger    *zap.Logger
	profiles  *service.ProfileAnalysisService
	advice    *service.AdviceService
	maxUpload int64
}

// NewCopilotHandler crea el handler; maxUpload acota el archivo multipart en bytes.
func NewCopilotHandler(
	logger *zap.Logger,
	profiles *service.ProfileAnalysisService,
	advice *service.AdviceService,
	maxUpload int64,
) *CopilotHandler {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &CopilotHandler{
		logger:    logger,
		profiles:  profiles,
		advice:    advice,
		maxUpload: maxUpload,
	}
}

// AnalyzeProfile maneja POST /analyze-profile (y el alias /analyze-image).
// Acepta JSON con la imagen en base64 o multipart/form-data con un archivo "image".
func (h *CopilotHandler) AnalyzeProfile(c *gin.Context) {
	var req domain.ProfileRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		r, err := h.bindMultipart(c)
		if err != nil {
			h.logger.Warn("invalid multipart profile request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		req = r
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	review, err := h.profiles.Run(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": review.Feedback})
}

// AnalyzeBio maneja POST /analyze-bio.
func (h *CopilotHandler) AnalyzeBio(c *gin.Context) {
	var req domain.BioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze bio request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	lines, err := h.advice.AnalyzeBio(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// SuggestReply maneja POST /suggest-reply.
func (h *CopilotHandler) SuggestReply(c *gin.Context) {
	var req domain.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid suggest reply request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	replies, err := h.advice.SuggestReply(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

// AskOut maneja POST /ask-out.
func (h *CopilotHandler) AskOut(c *gin.Context) {
	var req domain.AskOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid ask out request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	line, err := h.advice.AskOut(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"askout_line": line})
}

func (h *CopilotHandler) bindMultipart(c *gin.Context) (domain.ProfileRequest, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	req := domain.ProfileRequest{
		Name:       c.PostForm("name"),
		Age:        c.PostForm("age"),
		Gender:     c.PostForm("gender"),
		Goals:      c.PostForm("goals"),
		Confidence: c.PostForm("confidence"),
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		// Sin archivo: se acepta tambien el base64 como campo de texto.
		req.Image = c.PostForm("image")
		return req, nil
	}
	if err != nil {
		return domain.ProfileRequest{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return domain.ProfileRequest{}, err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		return domain.ProfileRequest{}, err
	}
	req.Image = base64.StdEncoding.EncodeToString(raw)
	return req, nil
}

func (h *CopilotHandler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	// La causa puede traer URLs o detalles del proveedor: solo va al log.
	h.logger.Error("copilot request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(status, gin.H{"error": publicMessage(err)})
}

// publicMessage resume un error 5xx a su tipo, sin la causa.
func publicMessage(err error) string {
	var se *domain.StageError
	if errors.As(err, &se) && se.Kind != nil {
		return se.Kind.Error()
	}
	return "internal error"
}

// statusFor traduce la taxonomia de errores a codigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInference), errors.Is(err, domain.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
