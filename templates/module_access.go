package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ModuleAccessCell is one role/module permission pair.
type ModuleAccessCell struct {
	Module  string
	CanView bool
	CanEdit bool
}

// ModuleAccessRow holds one role's permissions across all modules.
type ModuleAccessRow struct {
	Role  string
	Cells []ModuleAccessCell
}

// ModuleAccessData is the role x module permission matrix.
type ModuleAccessData struct {
	Modules []string
	Rows    []ModuleAccessRow
}

// ModuleAccessContent renders the permission matrix as a form. Checkbox
// names are "<role>:<module>:view" and "<role>:<module>:edit".
func ModuleAccessContent(data ModuleAccessData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="module-access"><h1>Module Access</h1>`)
		h.raw(`<form method="post" action="/admin/module-access" hx-post="/admin/module-access" hx-target="#module-access" hx-swap="outerHTML">`)
		h.raw(`<table><thead><tr><th>Role</th>`)
		for _, m := range data.Modules {
			h.raw(`<th>`)
			h.text(m)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range data.Rows {
			h.raw(`<tr><th>`)
			h.text(row.Role)
			h.raw(`</th>`)
			for _, c := range row.Cells {
				key := row.Role + ":" + c.Module
				h.raw(`<td><label><input type="checkbox" name="`, attr(key), `:view" value="true"`, checkedAttr(c.CanView), `> view</label> `)
				h.raw(`<label><input type="checkbox" name="`, attr(key), `:edit" value="true"`, checkedAttr(c.CanEdit), `> edit</label></td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table><div class="actions"><button type="submit">Save</button></div></form></section>`)
		return h.err
	})
}

// ModuleAccessPage renders the permission matrix as a full page.
func ModuleAccessPage(data ModuleAccessData, nav NavData) templ.Component {
	return Page("Module Access", nav, ModuleAccessContent(data))
}
