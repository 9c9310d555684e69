package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Translator renders English UI texts in another language, returning one
// entry per input text. It never fails: text it cannot translate comes back
// unchanged.
type Translator interface {
	Translate(ctx context.Context, texts []string, lang string) []string
}

// Passthrough returns every text untranslated.
type Passthrough struct{}

func (Passthrough) Translate(_ context.Context, texts []string, _ string) []string {
	return append([]string(nil), texts...)
}

// TranslateContent translates every value of content in one call.
func TranslateContent(ctx context.Context, t Translator, content Content, lang string) Content {
	if lang == Default {
		return content
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	texts := make([]string, len(keys))
	for i, k := range keys {
		texts[i] = content[k]
	}
	translated := t.Translate(ctx, texts, lang)

	out := make(Content, len(content))
	for i, k := range keys {
		out[k] = translated[i]
	}
	return out
}

// ClientConfig configures a Client.
type ClientConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Retries int
}

type translateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
	APIKey string   `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText []string `json:"translatedText"`
}

// Client translates through a LibreTranslate-compatible HTTP API and
// caches every successful translation for the life of the process.
type Client struct {
	client *resty.Client
	apiKey string
	cache  sync.Map // map[cacheKey]string
}

type cacheKey struct {
	lang string
	text string
}

// NewClient returns a Client for the server at cfg.URL.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client: resty.New().
			SetBaseURL(cfg.URL).
			SetTimeout(timeout).
			SetRetryCount(cfg.Retries).
			SetRetryWaitTime(200 * time.Millisecond).
			SetHeader("Content-Type", "application/json"),
		apiKey: cfg.APIKey,
	}
}

// NewTranslator returns a Client when url is set and Passthrough otherwise.
func NewTranslator(cfg ClientConfig) Translator {
	if cfg.URL == "" {
		return Passthrough{}
	}
	return NewClient(cfg)
}

// apiCode maps a UI language code to the translation API's code.
func apiCode(lang string) string {
	if lang == "zh-cn" {
		return "zh"
	}
	return lang
}

// Translate sends every uncached text to the server in a single request.
func (c *Client) Translate(ctx context.Context, texts []string, lang string) []string {
	out := make([]string, len(texts))
	copy(out, texts)
	if lang == Default {
		return out
	}

	var pending []string
	var slots []int
	for i, t := range texts {
		if v, ok := c.cache.Load(cacheKey{lang, t}); ok {
			out[i] = v.(string)
			continue
		}
		pending = append(pending, t)
		slots = append(slots, i)
	}
	if len(pending) == 0 {
		return out
	}

	results, err := c.request(ctx, pending, lang)
	if err != nil {
		slog.Warn("Translation failed, using source text", "lang", lang, "texts", len(pending), "error", err)
		return out
	}
	for j, r := range results {
		c.cache.Store(cacheKey{lang, pending[j]}, r)
		out[slots[j]] = r
	}
	return out
}

func (c *Client) request(ctx context.Context, texts []string, lang string) ([]string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(translateRequest{Q: texts, Source: Default, Target: apiCode(lang), Format: "text", APIKey: c.apiKey}).
		SetResult(&translateResponse{}).
		Post("/translate")
	if err != nil {
		return nil, fmt.Errorf("connect to translation server: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("translation server error: status %d", resp.StatusCode())
	}
	out := resp.Result().(*translateResponse)
	if len(out.TranslatedText) != len(texts) {
		return nil, fmt.Errorf("translation server returned %d texts for %d", len(out.TranslatedText), len(texts))
	}
	return out.TranslatedText, nil
}
