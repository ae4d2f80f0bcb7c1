package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// FormErrors renders a summary list of validation errors, sorted by field.
// Nothing is rendered when errs is empty.
func FormErrors(errs map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(errs) == 0 {
			return nil
		}
		h := &htmlWriter{w: w}
		h.raw(`<div class="form-errors" role="alert"><ul>`)
		for _, field := range sortedKeys(errs) {
			h.raw(`<li data-field="`, attr(field), `"><strong>`)
			h.text(humanizeField(field))
			h.raw(`</strong>: `)
			h.text(errs[field])
			h.raw(`</li>`)
		}
		h.raw(`</ul></div>`)
		return h.err
	})
}
