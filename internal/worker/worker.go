package worker

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-submitter/internal/dispatch"
	"github.com/sangkips/template-submitter/internal/domains/templates"
	"github.com/sangkips/template-submitter/internal/table"
)

// Summary counts what happened to the rows of one run.
type Summary struct {
	Rows            int
	Sent            int
	Failed          int
	ExampleWarnings int
	// Documents holds every built document when collection is enabled.
	Documents []templates.Document
}

type Worker struct {
	builder *templates.Builder
	sender  dispatch.Sender
	collect bool
}

func NewWorker(builder *templates.Builder, sender dispatch.Sender) *Worker {
	return &Worker{
		builder: builder,
		sender:  sender,
	}
}

// CollectDocuments makes Run keep every built document in the summary.
func (w *Worker) CollectDocuments() *Worker {
	w.collect = true
	return w
}

// Run processes rows one at a time in source order. A failed row never stops
// the run; only cancellation of ctx does, in which case the partial summary
// is returned with ctx's error.
func (w *Worker) Run(ctx context.Context, rows []table.Row) (Summary, error) {
	var summary Summary

	log.Info().Int("rows", len(rows)).Msg("worker started")
	if len(rows) > 0 {
		log.Debug().Strs("columns", rows[0].Columns()).Msg("source columns")
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			log.Info().Int("processed", summary.Rows).Msg("worker shutting down")
			return summary, err
		}
		w.processRow(ctx, row, &summary)
	}

	log.Info().
		Int("rows", summary.Rows).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Int("example_warnings", summary.ExampleWarnings).
		Msg("worker finished")

	return summary, nil
}

func (w *Worker) processRow(ctx context.Context, row table.Row, summary *Summary) {
	summary.Rows++

	rec := templates.Normalize(row)
	log.Info().Int("row", row.Line).Str("name", rec.Name).Msg("processing row")

	built := w.builder.Build(rec)
	if built.ExampleErr != nil {
		summary.ExampleWarnings++
		log.Warn().Err(built.ExampleErr).Int("row", row.Line).Str("name", rec.Name).Msg("manual review needed: example field could not be parsed")
	}
	log.Debug().
		Int("row", row.Line).
		Ints("placeholders", built.Placeholders).
		Int("examples", built.Mapping.Len()).
		Str("preview", templates.RenderPreview(rec.Text, built.Mapping)).
		Msg("rendered body preview")

	if w.collect {
		summary.Documents = append(summary.Documents, built.Document)
	}

	result := w.sender.Send(ctx, built.Document)
	if !result.OK() {
		w.handleFailure(row, built.Document, result, summary)
		return
	}

	w.handleSuccess(row, built.Document, result, summary)
}

func (w *Worker) handleSuccess(row table.Row, doc templates.Document, result dispatch.Result, summary *Summary) {
	summary.Sent++
	log.Info().
		Int("row", row.Line).
		Str("name", doc.Name).
		Str("outcome", string(result.Outcome)).
		Str("template_id", result.ID()).
		Msg("template submitted successfully")
}

func (w *Worker) handleFailure(row table.Row, doc templates.Document, result dispatch.Result, summary *Summary) {
	summary.Failed++
	log.Error().
		Err(result.Err).
		Int("row", row.Line).
		Str("name", doc.Name).
		Str("outcome", string(result.Outcome)).
		Int("status", result.StatusCode).
		Msg("failed to get a response for row")
}
