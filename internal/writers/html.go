package writers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"ksites/pkg/api"
)

const pageStyle = `body{font-family:sans-serif;margin:2em}table{border-collapse:collapse;margin-bottom:2em}` +
	`td,th{border:1px solid #ccc;padding:4px 8px;font-size:13px}th{background:#f4f4f4}` +
	`.fallback{color:#a00}code{font-family:monospace}`

var severityColor = map[string]string{
	"CRITICAL": "#f8d7da",
	"HIGH":     "#fde2c4",
	"MEDIUM":   "#fff3cd",
	"LOW":      "#d4edda",
}

// severityClass is a scoped CSS class; its rule is emitted once per page,
// the first time a row uses it.
func severityClass(sev string) templ.ComponentCSSClass {
	color, ok := severityColor[sev]
	if !ok {
		color = "#ffffff"
	}
	css := "background:" + color + ";"
	id := templ.CSSID("sev"+strings.ToLower(sev), css)
	return templ.ComponentCSSClass{ID: id, Class: templ.SafeCSS("." + id + "{" + css + "}")}
}

var placeholderClass = templ.ComponentCSSClass{ID: "placeholder", Class: templ.SafeCSS(".placeholder{font-style:italic;}")}

// Report renders designs as a standalone HTML page.
func Report(designs []api.DesignV1) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx = templ.InitializeContext(ctx)
		body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			for _, d := range designs {
				if err := designSection(d).Render(ctx, w); err != nil {
					return err
				}
			}
			return nil
		})
		return page("Guide design report").Render(templ.WithChildren(ctx, body), w)
	})
}

// page is the document shell; the body is taken from the context children.
func page(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)

		buf := templ.GetBuffer()
		defer templ.ReleaseBuffer(buf)
		t := templ.EscapeString(title)
		fmt.Fprintf(buf, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body><h1>%s</h1>",
			t, pageStyle, t)
		if err := children.Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString("</body></html>\n")
		_, err := buf.WriteTo(w)
		return err
	})
}

func designSection(d api.DesignV1) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<section><h2>%s <small>%s, %s</small></h2>",
			templ.EscapeString(d.Gene), templ.EscapeString(d.Organism), templ.EscapeString(d.CasType))
		if d.Kind == "fallback" {
			fmt.Fprintf(&b, "<p class=\"fallback\">Placeholder guides only: %s</p>", templ.EscapeString(d.Reason))
		}
		if len(d.Guides) == 0 {
			b.WriteString("<p>No guides passed the filters.</p></section>")
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString("<table><tr><th>#</th><th>Spacer</th><th>PAM</th><th>Position</th><th>Strand</th>" +
			"<th>On-target</th><th>Specificity</th><th>Off-targets</th><th>GC</th><th>Exon</th>" +
			"<th>Severity</th><th>Recommendation</th></tr>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		for i, g := range d.Guides {
			if err := guideRow(i+1, g).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table></section>")
		return err
	})
}

func guideRow(rank int, g api.GuideV1) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		sev := severityClass(g.Severity)
		classes := templ.Classes(sev, templ.KV[templ.CSSClass, bool](placeholderClass, g.Placeholder))
		if err := templ.RenderCSSItems(ctx, w, classes...); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "<tr class=\"%s\"><td>%d</td><td><code>%s</code></td><td><code>%s</code></td><td>%s</td><td>%s</td>"+
			"<td>%.3f</td><td>%.3f</td><td>%d</td><td>%.2f</td><td>%s %s</td><td>%s</td><td>%s</td></tr>",
			templ.EscapeString(classes.String()), rank,
			templ.EscapeString(g.Seq), templ.EscapeString(g.PAM),
			templ.EscapeString(g.Position), templ.EscapeString(g.Strand),
			g.DoenchScore, g.Specificity, g.OffTargetCount, g.GCContent,
			optInt(g.ExonNumber), templ.EscapeString(optString(g.ExonPosition)),
			templ.EscapeString(g.Severity), templ.EscapeString(g.Recommendation),
		)
		return err
	})
}

func init() {
	Register(FormatHTML, func(w io.Writer, designs []api.DesignV1) error {
		return Report(designs).Render(context.Background(), w)
	})
}
