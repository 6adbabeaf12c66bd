// Package deepl provides a client for the DeepL text translation API.
package deepl

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the DeepL translation operations.
type Client interface {
	// Translate translates text into the target language ("DE", "FR", ...)
	// and returns the translated text.
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// translateResponse is the parsed DeepL API response.
type translateResponse struct {
	Translations []translation `json:"translations"`
}

type translation struct {
	DetectedSourceLanguage string `json:"detected_source_language"`
	Text                   string `json:"text"`
}

// Option configures the DeepL client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new DeepL client. The default base URL targets the
// free API tier; pro keys need WithBaseURL("https://api.deepl.com/v2").
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api-free.deepl.com/v2",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// postForm executes a form POST with exponential backoff retries on
// transient failures (429, 500, 502, 503). The request is rebuilt per
// attempt because the form body is consumed by each send.
func (c *httpClient) postForm(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second
	encoded := form.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(encoded))
		if err != nil {
			return nil, 0, eris.Wrap(err, "deepl: create request")
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "deepl: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("deepl: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *httpClient) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "deepl: rate limit wait")
	}

	form := url.Values{
		"auth_key":            {c.apiKey},
		"text":                {text},
		"target_lang":         {strings.ToUpper(targetLang)},
		"preserve_formatting": {"1"},
	}

	body, statusCode, err := c.postForm(ctx, "/translate", form)
	if err != nil {
		return "", eris.Wrap(err, "deepl: request failed")
	}
	if statusCode != http.StatusOK {
		return "", eris.Errorf("deepl: unexpected status %d: %s", statusCode, string(body))
	}

	var result translateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", eris.Wrap(err, "deepl: unmarshal response")
	}
	if len(result.Translations) == 0 {
		return "", eris.New("deepl: response carries no translations")
	}

	return result.Translations[0].Text, nil
}
