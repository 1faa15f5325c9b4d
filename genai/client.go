// Package genai wraps the Gemini generateContent HTTP API behind a
// blocking call and a streaming call. The client is stateless per call
// and performs no retries: a failed call surfaces immediately and the
// caller decides what to do with it.
package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"codecrux/errors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a provider client. An empty apiKey is tolerated at
// construction time and rejected on the first call, so a misconfigured
// server still boots and reports the problem per turn.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at another endpoint. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// Generate performs one blocking generation call and returns the full text.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.apiKey == "" {
		return "", errors.ErrProviderUnavailable
	}
	opts = opts.withDefaults()

	resp, err := c.post(ctx, fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, opts.Model), prompt, opts)
	if err != nil {
		return "", errors.ProviderError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.ProviderError(readAPIError(resp))
	}

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.ProviderError(fmt.Errorf("decode response: %w", err))
	}
	return body.text(), nil
}

// GenerateStream performs one streaming generation call. onChunk is
// invoked synchronously for every non-empty text fragment, in arrival
// order, before the next fragment is read off the wire. The returned
// string is the concatenation of all fragments. Fragments already
// delivered before a mid-stream failure are not retracted.
func (c *Client) GenerateStream(ctx context.Context, prompt string, opts Options, onChunk func(string)) (string, error) {
	if c.apiKey == "" {
		return "", errors.ErrProviderUnavailable
	}
	opts = opts.withDefaults()

	resp, err := c.post(ctx, fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, opts.Model), prompt, opts)
	if err != nil {
		return "", errors.ProviderError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.ProviderError(readAPIError(resp))
	}

	full, err := readStream(resp.Body, onChunk)
	if err != nil {
		return full, errors.ProviderError(err)
	}
	return full, nil
}

func (c *Client) post(ctx context.Context, url, prompt string, opts Options) (*http.Response, error) {
	data, err := json.Marshal(newGenerateRequest(prompt, opts))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	return c.httpClient.Do(req)
}

// readStream consumes the SSE body line by line. Each "data:" record is
// one generateResponse carrying a partial candidate.
func readStream(body io.Reader, onChunk func(string)) (string, error) {
	reader := bufio.NewReader(body)
	var full string

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return full, nil
			}
			return full, fmt.Errorf("read stream: %w", err)
		}

		line = bytes.TrimSpace(line)
		if !bytes.HasPrefix(line, []byte("data: ")) {
			continue
		}
		data := line[len("data: "):]

		var chunk generateResponse
		if err := json.Unmarshal(data, &chunk); err != nil {
			return full, fmt.Errorf("parse stream record: %w", err)
		}
		if chunk.Error != nil {
			return full, fmt.Errorf("%s", chunk.Error.Message)
		}

		if text := chunk.text(); text != "" {
			full += text
			if onChunk != nil {
				onChunk(text)
			}
		}
	}
}

func readAPIError(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	var body generateResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil {
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, body.Error.Message)
	}
	return fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(raw))
}
