package templates

import (
	"encoding/json"
	"fmt"
	"os"
)

type ExampleFormat string

const (
	// FormatIndexed emits {"1": "Alice", "2": "4821"}.
	FormatIndexed ExampleFormat = "indexed"
	// FormatBodyText emits {"body_text": [["Alice", "4821"]]}.
	FormatBodyText ExampleFormat = "body_text"
)

type Builder struct {
	format ExampleFormat
}

// NewBuilder returns a Builder emitting examples in format. Unknown formats
// fall back to FormatIndexed.
func NewBuilder(format ExampleFormat) *Builder {
	if format != FormatBodyText {
		format = FormatIndexed
	}
	return &Builder{format: format}
}

// Result carries a built document. ExampleErr is set when the example column
// could not be parsed; the document is still complete, with no examples.
type Result struct {
	Document     Document
	Placeholders []int
	Mapping      ExampleMapping
	ExampleErr   error
}

func (b *Builder) Build(rec Record) Result {
	placeholders := ExtractPlaceholders(rec.Text)

	examples, err := ParseExamples(rec.Example)
	if err != nil {
		examples = nil
	}
	mapping := MapExamples(placeholders, examples)

	body := Component{
		Type:    ComponentBody,
		Text:    rec.Text,
		Example: b.example(mapping),
	}

	components := []Component{body}
	if rec.Footer != nil {
		components = append(components, Component{Type: rec.Footer.Type, Text: rec.Footer.Text})
	}

	return Result{
		Document: Document{
			Name:                rec.Name,
			Category:            rec.Category,
			AllowCategoryChange: rec.AllowCategoryChange,
			Language:            rec.Language,
			Components:          components,
		},
		Placeholders: placeholders,
		Mapping:      mapping,
		ExampleErr:   err,
	}
}

func (b *Builder) example(mapping ExampleMapping) Example {
	if b.format == FormatBodyText {
		ex := BodyTextExample{BodyText: [][]string{}}
		if mapping.Len() > 0 {
			ex.BodyText = append(ex.BodyText, mapping.Values())
		}
		return ex
	}
	return mapping
}

// WriteDocuments writes docs to path as an indented JSON array.
func WriteDocuments(path string, docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}

	data, err := json.MarshalIndent(docs, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
