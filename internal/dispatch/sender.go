package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-submitter/internal/domains/templates"
)

type Sender interface {
	Send(ctx context.Context, doc templates.Document) Result
}

type Outcome string

const (
	OutcomeSent           Outcome = "sent"
	OutcomeDryRun         Outcome = "dry_run"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeRejected       Outcome = "rejected"
	OutcomeEncodeError    Outcome = "encode_error"
)

// Result is the classified outcome of one submission. Any outcome other than
// sent or dry_run means no usable response was obtained for the row.
type Result struct {
	Outcome    Outcome
	StatusCode int
	// Body is the raw response text.
	Body string
	// Response is the decoded body when it is a JSON object.
	Response map[string]any
	Err      error
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeSent || r.Outcome == OutcomeDryRun
}

// ID returns the template id from the response, if any.
func (r Result) ID() string {
	if r.Response == nil {
		return ""
	}
	id, _ := r.Response["id"].(string)
	return id
}

// StatusError is a non-2xx answer from the template API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("template API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("template API returned status %d: %s", e.StatusCode, e.Message)
}

// DryRunSender logs documents instead of sending them.
type DryRunSender struct{}

func NewDryRunSender() *DryRunSender {
	return &DryRunSender{}
}

// Send returns a synthetic template id without any network I/O.
func (s *DryRunSender) Send(ctx context.Context, doc templates.Document) Result {
	payload, res, ok := encode(doc)
	if !ok {
		return res
	}

	id := fmt.Sprintf("dry-run-%s", uuid.New().String())
	log.Info().Str("name", doc.Name).Str("id", id).RawJSON("payload", payload).Msg("dry run, request not sent")

	return Result{
		Outcome:  OutcomeDryRun,
		Body:     string(payload),
		Response: map[string]any{"id": id},
	}
}

func encode(doc templates.Document) ([]byte, Result, bool) {
	payload, err := json.Marshal(doc)
	if err != nil {
		log.Error().Err(err).Str("name", doc.Name).Msg("failed to serialize template document")
		return nil, Result{Outcome: OutcomeEncodeError, Err: fmt.Errorf("failed to serialize document %q: %w", doc.Name, err)}, false
	}
	return payload, Result{}, true
}
