// Package forward relays platform webhooks to the function that handles them.
package forward

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studentwallet/internal/logger"
)

// Route is the path the platform is configured to call.
const Route = "/api/zalo-webhook"

// headers that describe the inbound hop rather than the payload
var skipHeaders = map[string]bool{
	"Accept-Encoding":   true,
	"Connection":        true,
	"Content-Length":    true,
	"Host":              true,
	"Transfer-Encoding": true,
}

// Proxy forwards webhook POSTs to a target URL and relays the response.
type Proxy struct {
	httpClient *http.Client
	targetURL  string
	apiKey     string
}

// NewProxy creates a Proxy. apiKey, when set, is sent as X-API-Key.
func NewProxy(targetURL, apiKey string, timeout time.Duration) *Proxy {
	return &Proxy{
		httpClient: &http.Client{Timeout: timeout},
		targetURL:  targetURL,
		apiKey:     apiKey,
	}
}

// Register mounts the proxy on router for every method so non-POST calls
// get a 405 body instead of gin's default 404.
func (p *Proxy) Register(router gin.IRouter) {
	router.Any(Route, p.Handle)
}

// Handle godoc
// @Summary      Forward platform webhook
// @Description  Relays the webhook body to the configured target and returns its response unchanged
// @Tags         webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      405  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/zalo-webhook [post]
func (p *Proxy) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	status, contentType, body, err := p.forward(c.Request)
	if err != nil {
		logger.Named("forward").Errorw("Webhook proxy error", "error", err, "target", p.targetURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	c.Data(status, contentType, body)
}

func (p *Proxy) forward(in *http.Request) (int, string, []byte, error) {
	payload, err := io.ReadAll(in.Body)
	if err != nil {
		return 0, "", nil, fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(payload)) > 0 && !json.Valid(payload) {
		return 0, "", nil, fmt.Errorf("request body is not valid JSON")
	}

	req, err := http.NewRequestWithContext(in.Context(), http.MethodPost, p.targetURL, bytes.NewReader(payload))
	if err != nil {
		return 0, "", nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for name, values := range in.Header {
		if skipHeaders[http.CanonicalHeaderKey(name)] {
			continue
		}
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, "", nil, fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, fmt.Errorf("read upstream response: %w", err)
	}

	logger.Named("forward").Infow("Forwarded webhook", "status", resp.StatusCode, "bytes", len(payload))
	return resp.StatusCode, resp.Header.Get("Content-Type"), body, nil
}
