// Package deepl implements the DeepL HTTP client used as the external
// translation provider.
//
// Requests go to the free-tier endpoint as form-encoded POSTs with
// repeated text fields; the response carries one translation per input,
// in order. Rate limits (429, and DeepL's 456 quota status) are retried
// with the server-suggested or exponential delay before the error is
// surfaced to the caller.
package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/junyjeon/cursor-translator/translator"
)

// DefaultBaseURL is the DeepL free-tier translate endpoint.
const DefaultBaseURL = "https://api-free.deepl.com/v2/translate"

// Client talks to the DeepL API.
type Client struct {
	// APIKey is the DeepL auth key.
	APIKey string
	// BaseURL overrides the endpoint (tests). Empty means DefaultBaseURL.
	BaseURL string
	// HTTPClient overrides the transport. Nil means a 30s-timeout client.
	HTTPClient *http.Client
	// MaxRetries bounds retry attempts on rate limits and server errors.
	// Zero means 3.
	MaxRetries int
}

// New returns a client for the given auth key.
func New(apiKey string) *Client {
	return &Client{APIKey: apiKey}
}

func (c *Client) endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) maxRetries() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return 3
}

// response mirrors the DeepL translate response body.
type response struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// TranslateBatch implements translator.Provider.
func (c *Client) TranslateBatch(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	form := url.Values{}
	form.Set("auth_key", c.APIKey)
	form.Set("target_lang", strings.ToUpper(targetLang))
	for _, t := range texts {
		form.Add("text", t)
	}
	body := form.Encode()

	client := c.httpClient()
	retries := c.maxRetries()

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < retries {
				if err := sleep(ctx, backoff(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("%w: %v", translator.ErrUnreachable, err)
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return parseTranslations(respBody, len(texts))

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: status %d", translator.ErrUnauthorized, resp.StatusCode)

		// 456 is DeepL's "quota exceeded" status.
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 456:
			if attempt < retries {
				if err := sleep(ctx, retryDelay(resp, attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("%w after %d retries", translator.ErrRateLimited, retries)

		case resp.StatusCode >= 500:
			if attempt < retries {
				if err := sleep(ctx, backoff(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("%w: status %d", translator.ErrUnreachable, resp.StatusCode)

		default:
			return nil, fmt.Errorf("%w: status %d: %s", translator.ErrUnreachable,
				resp.StatusCode, truncate(string(respBody), 200))
		}
	}
}

func parseTranslations(body []byte, want int) ([]string, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: parsing response: %v", translator.ErrUnreachable, err)
	}
	if len(r.Translations) != want {
		return nil, fmt.Errorf("%w: expected %d translations, got %d",
			translator.ErrUnreachable, want, len(r.Translations))
	}
	out := make([]string, want)
	for i, t := range r.Translations {
		out[i] = t.Text
	}
	return out, nil
}

// retryDelay honors the Retry-After header when present, else backs off
// exponentially.
func retryDelay(resp *http.Response, attempt int) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		var secs int
		if _, err := fmt.Sscanf(v, "%d", &secs); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return backoff(attempt)
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
