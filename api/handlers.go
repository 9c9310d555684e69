package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/saqibullah/heart-disease-predictor/internal/classifier"
	"github.com/saqibullah/heart-disease-predictor/internal/i18n"
	"github.com/saqibullah/heart-disease-predictor/internal/prediction"
	"github.com/saqibullah/heart-disease-predictor/internal/validation"
)

// maxFormMemory bounds the multipart form held in memory; the form carries
// no files.
const maxFormMemory = 1 << 20

// Handler serves the form pages and the JSON prediction API.
type Handler struct {
	registry   *classifier.Registry
	service    *prediction.Service
	translator i18n.Translator
}

func NewHandler(registry *classifier.Registry, translator i18n.Translator) *Handler {
	return &Handler{
		registry:   registry,
		service:    prediction.NewService(registry),
		translator: translator,
	}
}

// GET /
func (h *Handler) Home(c *gin.Context) {
	h.renderForm(c, nil)
}

// POST /set_language
func (h *Handler) SetLanguage(c *gin.Context) {
	lang := i18n.Normalize(c.DefaultPostForm("lang", i18n.Default))

	session := sessions.Default(c)
	session.Set(langSessionKey, lang)
	if err := session.Save(); err != nil {
		slog.Error("Failed to save session", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	target := c.Request.Referer()
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

// POST /predict
func (h *Handler) PredictForm(c *gin.Context) {
	ctx := c.Request.Context()
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Warn("Invalid form submission", "request_id", c.GetString(requestIDKey), "error", err)
		h.renderForm(c, []string{i18n.MsgPredictionError})
		return
	}
	sub := make(validation.Submission, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			sub[k] = v[0]
		}
	}

	res, fieldErrs, err := h.service.Run(ctx, sub)
	switch {
	case len(fieldErrs) > 0:
		h.renderForm(c, fieldErrs.Messages())
		return
	case errors.Is(err, prediction.ErrUnknownModel):
		h.renderForm(c, []string{i18n.MsgInvalidModel})
		return
	case err != nil:
		slog.Error("Prediction error", "request_id", c.GetString(requestIDKey), "error", err)
		h.renderForm(c, []string{i18n.MsgPredictionError})
		return
	}

	lang := i18n.FromContext(ctx)
	data := gin.H{
		"languages":    i18n.Languages,
		"current_lang": lang,
		"content":      i18n.TranslateContent(ctx, h.translator, i18n.ResultContent, lang),
		"prediction":   res.Label,
		"disease":      res.HasDisease(),
		"model_name":   res.Model,
		"model_title":  h.translate(ctx, []string{i18n.FormContent[res.Model]}, lang)[0],
	}
	if res.Probability != nil {
		data["has_probability"] = true
		data["probability"] = *res.Probability
	}
	c.HTML(http.StatusOK, "result.html", data)
}

// POST /api/predict
func (h *Handler) PredictAPI(c *gin.Context) {
	sub, err := validation.DecodeJSON(c.Request.Body)
	if err != nil {
		slog.Warn("Invalid API request", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, fieldErrs, err := h.service.Run(c.Request.Context(), sub)
	switch {
	case len(fieldErrs) > 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErrs.Messages()})
		return
	case errors.Is(err, prediction.ErrUnknownModel):
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.MsgInvalidModel})
		return
	case err != nil:
		slog.Error("API prediction error", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{"prediction": res.Label}
	if res.Probability != nil {
		body["probability"] = *res.Probability
	}
	c.JSON(http.StatusOK, body)
}

type modelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Probability bool   `json:"probability"`
}

// GET /api/models
func (h *Handler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.modelInfos()})
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"models":    h.registry.IDs(),
	})
}

func (h *Handler) modelInfos() []modelInfo {
	ids := h.registry.IDs()
	out := make([]modelInfo, 0, len(ids))
	for _, id := range ids {
		c, _ := h.registry.Lookup(id)
		out = append(out, modelInfo{ID: id, Name: i18n.FormContent[id], Probability: classifier.HasProbability(c)})
	}
	return out
}

// renderForm shows the input form, with errors translated when present.
func (h *Handler) renderForm(c *gin.Context, errs []string) {
	ctx := c.Request.Context()
	lang := i18n.FromContext(ctx)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"languages":    i18n.Languages,
		"current_lang": lang,
		"content":      i18n.TranslateContent(ctx, h.translator, i18n.FormContent, lang),
		"models":       h.modelInfos(),
		"errors":       h.translate(ctx, errs, lang),
	})
}

func (h *Handler) translate(ctx context.Context, texts []string, lang string) []string {
	if len(texts) == 0 || lang == i18n.Default {
		return texts
	}
	return h.translator.Translate(ctx, texts, lang)
}
