package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"crmforms/services"
)

// OptionList renders <option> elements for a geo select. An empty
// placeholder option comes first so the select can be cleared.
func OptionList(options []services.GeoOption, selected, placeholder string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<option value="">`)
		h.text(placeholder)
		h.raw(`</option>`)
		for _, o := range options {
			h.raw(`<option value="`, attr(o.Code), `"`, selectedAttr(o.Code == selected), `>`)
			h.text(o.Name)
			h.raw(`</option>`)
		}
		return h.err
	})
}

// StringOptionList renders <option> elements for a plain string select.
func StringOptionList(values []string, selected, placeholder string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if placeholder != "" {
			h.raw(`<option value="">`)
			h.text(placeholder)
			h.raw(`</option>`)
		}
		for _, v := range values {
			h.raw(`<option value="`, attr(v), `"`, selectedAttr(v == selected), `>`)
			h.text(v)
			h.raw(`</option>`)
		}
		return h.err
	})
}
