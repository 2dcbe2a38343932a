package reportserver

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"chatcheck/internal/report"
)

// IndexPage lists runs with links to their reports.
func IndexPage(runs []report.RunEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b pageBuilder
		b.raw(`<!doctype html>
<html lang="en"><head><meta charset="utf-8"><title>chatcheck runs</title>
<style>body{font-family:system-ui,sans-serif;margin:2rem}table{border-collapse:collapse}td,th{border:1px solid #d0d7de;padding:.3rem .6rem;text-align:left}</style>
</head><body><h1>chatcheck runs</h1>`)
		if len(runs) == 0 {
			b.raw("<p>No runs yet.</p>")
		} else {
			b.raw("<table><thead><tr><th>Run</th><th>Endpoint</th><th>Passed</th><th>Failed</th><th>Skipped</th><th>Data</th></tr></thead><tbody>")
			for _, run := range runs {
				href := "/runs/" + url.PathEscape(run.RunID) + "/"
				b.raw(`<tr><td><a href="`)
				b.text(href)
				b.raw(`">`)
				b.text(run.RunID)
				b.raw("</a></td><td>")
				b.text(run.Results.Endpoint)
				summary := run.Results.Summary
				b.raw(fmt.Sprintf("</td><td>%d</td><td>%d</td><td>%d</td>", summary.Success, summary.Failed, summary.Skipped))
				b.raw(`<td><a href="`)
				b.text(href + "results.json")
				b.raw(`">results.json</a></td></tr>`)
			}
			b.raw("</tbody></table>")
		}
		b.raw("</body></html>\n")
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

type pageBuilder struct {
	buf []byte
}

func (b *pageBuilder) raw(s string) {
	b.buf = append(b.buf, s...)
}

func (b *pageBuilder) text(s string) {
	b.raw(templ.EscapeString(s))
}

func (b *pageBuilder) String() string {
	return string(b.buf)
}
