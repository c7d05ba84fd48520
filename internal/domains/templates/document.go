package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const ComponentBody = "BODY"

// Document is the request body for one message template submission.
type Document struct {
	Name                string      `json:"name"`
	Category            string      `json:"category"`
	AllowCategoryChange any         `json:"allow_category_change"`
	Language            string      `json:"language"`
	Components          []Component `json:"components"`
}

// Body returns the BODY component. Every built document has one.
func (d Document) Body() (Component, bool) {
	for _, c := range d.Components {
		if c.Type == ComponentBody {
			return c, true
		}
	}
	return Component{}, false
}

// Component is one section of a template. Example is set only on BODY.
type Component struct {
	Type    string  `json:"type"`
	Text    string  `json:"text"`
	Example Example `json:"example,omitempty"`
}

// Example is the sample-value payload of a BODY component. It is either an
// ExampleMapping or a BodyTextExample.
type Example interface {
	Values() []string
}

func (c *Component) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    string          `json:"type"`
		Text    string          `json:"text"`
		Example json.RawMessage `json:"example"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Type = raw.Type
	c.Text = raw.Text
	c.Example = nil

	if len(raw.Example) == 0 || bytes.Equal(raw.Example, []byte("null")) {
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw.Example, &probe); err != nil {
		return fmt.Errorf("component example: %w", err)
	}

	if _, ok := probe[bodyTextKey]; ok {
		var ex BodyTextExample
		if err := json.Unmarshal(raw.Example, &ex); err != nil {
			return fmt.Errorf("component example: %w", err)
		}
		c.Example = ex
		return nil
	}

	var m ExampleMapping
	if err := json.Unmarshal(raw.Example, &m); err != nil {
		return fmt.Errorf("component example: %w", err)
	}
	c.Example = m
	return nil
}

type ExampleEntry struct {
	Placeholder int
	Value       string
}

// ExampleMapping maps placeholder indices to sample values. It serializes as
// a JSON object whose keys keep placeholder first-appearance order.
type ExampleMapping struct {
	entries []ExampleEntry
}

// MapExamples pairs placeholders with examples positionally, stopping at the
// shorter of the two.
func MapExamples(placeholders []int, examples []string) ExampleMapping {
	n := min(len(placeholders), len(examples))

	var m ExampleMapping
	for i := 0; i < n; i++ {
		m.entries = append(m.entries, ExampleEntry{Placeholder: placeholders[i], Value: examples[i]})
	}
	return m
}

func (m ExampleMapping) Len() int {
	return len(m.entries)
}

func (m ExampleMapping) Entries() []ExampleEntry {
	return append([]ExampleEntry(nil), m.entries...)
}

func (m ExampleMapping) Get(placeholder int) (string, bool) {
	for _, e := range m.entries {
		if e.Placeholder == placeholder {
			return e.Value, true
		}
	}
	return "", false
}

func (m ExampleMapping) Values() []string {
	values := make([]string, len(m.entries))
	for i, e := range m.entries {
		values[i] = e.Value
	}
	return values
}

func (m ExampleMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(strconv.Itoa(e.Placeholder))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *ExampleMapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("example mapping: expected object, got %v", tok)
	}

	m.entries = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		placeholder, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("example mapping: placeholder key %q is not a number", key)
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("example mapping: value for %q: %w", key, err)
		}
		m.entries = append(m.entries, ExampleEntry{Placeholder: placeholder, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

const bodyTextKey = "body_text"

// BodyTextExample is the destination API's native example shape:
// {"body_text": [["value1", "value2"]]}.
type BodyTextExample struct {
	BodyText [][]string `json:"body_text"`
}

func (b BodyTextExample) Values() []string {
	if len(b.BodyText) == 0 {
		return nil
	}
	return append([]string(nil), b.BodyText[0]...)
}
