package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// NavItem is one entry of the side navigation.
type NavItem struct {
	Label  string
	Href   string
	Count  int
	Active bool
}

// NavData is the navigation shown on every full page.
type NavData struct {
	Role  string
	Items []NavItem
}

// Page wraps content in the full HTML document with navigation.
func Page(title string, nav NavData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` · CRM</title>`)
		h.raw(`<link rel="stylesheet" href="/static/css/app.css">`)
		h.raw(`<script src="/static/js/htmx.min.js" defer></script>`)
		h.raw(`</head><body hx-boost="true"><aside class="sidebar"><nav><ul>`)
		for _, item := range nav.Items {
			class := ""
			if item.Active {
				class = ` class="active"`
			}
			h.raw(`<li`, class, `><a href="`, attr(item.Href), `">`)
			h.text(item.Label)
			if item.Count > 0 {
				h.raw(` <span class="badge">`, strconv.Itoa(item.Count), `</span>`)
			}
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></nav>`)
		if nav.Role != "" {
			h.raw(`<p class="role">Role: `)
			h.text(nav.Role)
			h.raw(`</p>`)
		}
		h.raw(`</aside><main id="main-content">`)
		h.component(ctx, content)
		h.raw(`</main><div id="toast-container"></div></body></html>`)
		return h.err
	})
}
