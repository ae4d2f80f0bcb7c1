// Package templates holds the HTML components rendered by the handlers.
// Components are templ.Component values so handlers can render full pages
// and HTMX partials the same way.
package templates

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// htmlWriter accumulates output and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

// attr escapes a value for use inside a double-quoted attribute.
func attr(s string) string {
	return templ.EscapeString(s)
}

func selectedAttr(on bool) string {
	if on {
		return " selected"
	}
	return ""
}

func checkedAttr(on bool) string {
	if on {
		return " checked"
	}
	return ""
}

func disabledAttr(on bool) string {
	if on {
		return " disabled"
	}
	return ""
}

// fieldError renders the inline error for a form field, if any.
func fieldError(h *htmlWriter, errs map[string]string, field string) {
	msg, ok := errs[field]
	if !ok {
		return
	}
	h.raw(`<p class="field-error" id="err-`, attr(field), `">`)
	h.text(msg)
	h.raw(`</p>`)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func humanizeField(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// textInput renders a labelled text input with its inline error.
func textInput(h *htmlWriter, errs map[string]string, name, label, value, inputType string) {
	if inputType == "" {
		inputType = "text"
	}
	h.raw(`<div class="field"><label for="`, attr(name), `">`)
	h.text(label)
	h.raw(`</label><input type="`, inputType, `" id="`, attr(name), `" name="`, attr(name), `" value="`, attr(value), `"`)
	if _, bad := errs[name]; bad {
		h.raw(` aria-invalid="true"`)
	}
	h.raw(`>`)
	fieldError(h, errs, name)
	h.raw(`</div>`)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
