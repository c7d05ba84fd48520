package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-submitter/internal/domains/templates"
	"github.com/sangkips/template-submitter/internal/logging"
)

const (
	maxResponseBytes = 1 << 20
	logBodyLimit     = 512
)

type ClientConfig struct {
	EndpointURL string
	AuthToken   string
	// Cookie is sent verbatim as the Cookie header when set.
	Cookie  string
	Timeout time.Duration
}

// Client submits template documents to the message template API.
type Client struct {
	endpoint   string
	authToken  string
	cookie     string
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	return &Client{
		endpoint:  cfg.EndpointURL,
		authToken: cfg.AuthToken,
		cookie:    cfg.Cookie,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send performs a single POST of doc. It never retries; every failure is
// logged and reported through the returned Result.
func (c *Client) Send(ctx context.Context, doc templates.Document) Result {
	payload, res, ok := encode(doc)
	if !ok {
		return res
	}

	submissionID := uuid.New().String()
	logger := log.With().Str("endpoint", c.endpoint).Str("name", doc.Name).Str("submission_id", submissionID).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		logger.Error().Err(err).Msg("failed to create request")
		return Result{Outcome: OutcomeTransportError, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	logger.Info().Str("payload", logging.Truncate(string(payload), logBodyLimit)).Msg("sending template request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("request failed")
		return Result{Outcome: OutcomeTransportError, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logger.Error().Err(err).Int("status", resp.StatusCode).Msg("failed to read response body")
		return Result{Outcome: OutcomeTransportError, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	result := Result{
		StatusCode: resp.StatusCode,
		Body:       string(raw),
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		result.Response = decoded
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Outcome = OutcomeRejected
		result.Err = &StatusError{StatusCode: resp.StatusCode, Message: apiErrorMessage(decoded)}
		logger.Error().Err(result.Err).Str("response", logging.Truncate(result.Body, logBodyLimit)).Msg("template API rejected request")
		return result
	}

	result.Outcome = OutcomeSent
	logger.Info().Int("status", resp.StatusCode).Str("response", logging.Truncate(result.Body, logBodyLimit)).Msg("received response")
	return result
}

// apiErrorMessage extracts error.message from a Graph-style error body.
func apiErrorMessage(body map[string]any) string {
	apiErr, ok := body["error"].(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := apiErr["message"].(string)
	return msg
}
