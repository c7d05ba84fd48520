package templates

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Fields is a loosely typed source row.
type Fields interface {
	Lookup(column string) (any, bool)
}

// MapFields adapts a plain map to Fields.
type MapFields map[string]any

func (m MapFields) Lookup(column string) (any, bool) {
	v, ok := m[column]
	return v, ok
}

const (
	ColumnName                = "name"
	ColumnCategory            = "category"
	ColumnAllowCategoryChange = "allow_category_change"
	ColumnLanguage            = "language"
	ColumnText                = "text"
	ColumnExample             = "example"
)

// Footer columns, checked in order. The first pair is the second type/text
// pair of a table whose duplicate headers were renamed.
var footerColumns = [][2]string{
	{"type.1", "text.1"},
	{"footer_type", "footer_text"},
}

type Footer struct {
	Type string
	Text string
}

// Record is the canonical form of one source row.
type Record struct {
	Name                string
	Category            string
	Language            string
	Text                string
	Example             string
	AllowCategoryChange any
	Footer              *Footer
}

// SafeString returns v trimmed if it is a string and "" otherwise.
func SafeString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Normalize converts a source row into a Record. Missing columns and
// non-text values become empty strings.
func Normalize(row Fields) Record {
	rec := Record{
		Name:     textField(row, ColumnName),
		Category: textField(row, ColumnCategory),
		Language: textField(row, ColumnLanguage),
		Text:     textField(row, ColumnText),
		Example:  textField(row, ColumnExample),
	}
	rec.AllowCategoryChange, _ = row.Lookup(ColumnAllowCategoryChange)
	rec.Footer = footerOf(row)
	return rec
}

func textField(row Fields, column string) string {
	v, ok := row.Lookup(column)
	if !ok || v == nil {
		return ""
	}
	if _, isText := v.(string); !isText {
		log.Debug().Str("column", column).Str("type", fmt.Sprintf("%T", v)).Msg("non-text value coerced to empty string")
	}
	return SafeString(v)
}

func footerOf(row Fields) *Footer {
	for _, cols := range footerColumns {
		typ, typOK := row.Lookup(cols[0])
		text, textOK := row.Lookup(cols[1])
		if !typOK || !textOK || typ == nil || text == nil {
			continue
		}

		footer := Footer{Type: SafeString(typ), Text: SafeString(text)}
		if footer.Type == "" || footer.Text == "" {
			continue
		}
		return &footer
	}
	return nil
}
