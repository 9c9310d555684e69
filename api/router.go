package api

import (
	"embed"
	"html/template"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saqibullah/heart-disease-predictor/internal/i18n"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	sessionName    = "heart_disease_session"
	langSessionKey = "lang"
	requestIDKey   = "request_id"
	requestIDHdr   = "X-Request-ID"
)

type RouterConfig struct {
	FrontendURL   string
	SessionSecret string
}

// NewRouter wires the middleware chain and routes around h.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(cors.New(corsConfig(cfg.FrontendURL)))
	r.Use(sessions.Sessions(sessionName, cookie.NewStore([]byte(cfg.SessionSecret))))
	r.Use(Language())

	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", h.Home)
	r.POST("/set_language", h.SetLanguage)
	r.POST("/predict", h.PredictForm)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/predict", h.PredictAPI)
		api.GET("/models", h.Models)
	}
	return r
}

func corsConfig(frontendURL string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"POST", "GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if frontendURL == "" || frontendURL == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{frontendURL}
	}
	return cfg
}

// RequestLogger tags each request with an id and logs it once handled.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHdr)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHdr, id)

		start := time.Now()
		c.Next()

		slog.Info("Request handled",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Language resolves the UI language once per request: the session
// preference first, then Accept-Language, then English.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang, _ := sessions.Default(c).Get(langSessionKey).(string)
		if lang != "" {
			lang = i18n.Normalize(lang)
		} else {
			lang = i18n.Match(c.GetHeader("Accept-Language"))
		}
		c.Request = c.Request.WithContext(i18n.WithLanguage(c.Request.Context(), lang))
		c.Next()
	}
}
