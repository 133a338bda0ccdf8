package pretty

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/fatih/color"
)

// Formatter renders arbitrary values as indented JSON-like text, with or
// without ANSI color. It is safe for concurrent use.
type Formatter struct {
	colored *colorjson.Formatter
	plain   *colorjson.Formatter
}

// ErrUnsupported is returned for values encoding/json cannot represent.
var ErrUnsupported = errors.New("value cannot be represented")

// New returns a Formatter with two-space indentation. Colored output is
// produced even when stdout is not a terminal; the caller decides where it
// is shown.
func New() *Formatter {
	colored := colorjson.NewFormatter()
	colored.Indent = 2
	colored.KeyColor = forced(color.FgWhite)
	colored.StringColor = forced(color.FgGreen)
	colored.BoolColor = forced(color.FgYellow)
	colored.NumberColor = forced(color.FgCyan)
	colored.NullColor = forced(color.FgHiBlack)

	plain := colorjson.NewFormatter()
	plain.Indent = 2
	plain.DisabledColor = true

	return &Formatter{colored: colored, plain: plain}
}

func forced(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// Format renders v. Strings, errors and fmt.Stringers are returned as their
// text. Byte slices holding JSON are decoded first. Everything else goes
// through encoding/json.
func (f *Formatter) Format(v any, colored bool) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case error:
		return t.Error(), nil
	case fmt.Stringer:
		return t.String(), nil
	case json.RawMessage:
		return f.formatJSON(t, colored)
	case []byte:
		if json.Valid(t) {
			return f.formatJSON(t, colored)
		}
		return string(t), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return f.formatJSON(data, colored)
}

func (f *Formatter) formatJSON(data []byte, colored bool) (string, error) {
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("decode value: %w", err)
	}
	formatter := f.plain
	if colored {
		formatter = f.colored
	}
	out, err := formatter.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("format value: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
