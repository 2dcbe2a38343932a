package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"chatcheck/internal/runner"
)

const reportStyles = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2328}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #d0d7de;padding:.4rem .6rem;text-align:left;vertical-align:top}
th{background:#f6f8fa}
code{font-size:.85rem;white-space:pre-wrap;word-break:break-word}
.summary span{margin-right:1.5rem}
.status-PASS{color:#1a7f37;font-weight:600}
.status-FAIL,.status-REQUEST_FAILED,.status-HTTP_ERROR{color:#cf222e;font-weight:600}
.status-SKIPPED{color:#9a6700;font-weight:600}`

// RenderHTML renders the single-run report into a string.
func RenderHTML(ctx context.Context, results runner.Results) (string, error) {
	var builder strings.Builder
	if err := RunPage(results).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// RunPage is the HTML report component for one run.
func RunPage(results runner.Results) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		page := &htmlWriter{w: w}
		page.raw("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		page.raw("<title>")
		page.text("chatcheck report " + results.RunID)
		page.raw("</title><style>" + reportStyles + "</style></head><body>")
		page.raw("<h1>Run ")
		page.text(results.RunID)
		page.raw("</h1>")
		page.raw("<p>Endpoint <code>")
		page.text(results.Endpoint)
		page.raw("</code> suite <code>")
		page.text(results.Suite)
		page.raw("</code></p><p>Started ")
		page.text(formatTime(results.StartedAt))
		page.raw(" finished ")
		page.text(formatTime(results.FinishedAt))
		page.raw("</p>")
		page.raw(fmt.Sprintf(`<p class="summary"><span>%d passed</span><span>%d failed</span><span>%d skipped</span></p>`,
			results.Summary.Success, results.Summary.Failed, results.Summary.Skipped))
		page.raw("<table><thead><tr><th>ID</th><th>Query</th><th>Match</th><th>Expected</th><th>Actual</th><th>Status</th><th>Time</th><th>Response</th></tr></thead><tbody>")
		for _, result := range results.Results {
			if err := ctx.Err(); err != nil {
				return err
			}
			page.row(result)
		}
		page.raw("</tbody></table></body></html>\n")
		return page.err
	})
}

// htmlWriter keeps the first write error so rendering reads linearly.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (p *htmlWriter) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *htmlWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *htmlWriter) cell(s string) {
	p.raw("<td>")
	p.text(s)
	p.raw("</td>")
}

func (p *htmlWriter) codeCell(s string) {
	p.raw("<td><code>")
	p.text(s)
	p.raw("</code></td>")
}

func (p *htmlWriter) row(result runner.TestResult) {
	p.raw("<tr>")
	p.cell(result.ID)
	p.cell(result.Query)
	p.cell(result.MatchType.String())
	p.codeCell(result.Expected.Key())
	p.codeCell(result.Actual.Key())
	p.raw(`<td class="status-`)
	p.text(string(result.Status))
	p.raw(`">`)
	p.text(statusLabel(result))
	p.raw("</td>")
	p.cell(fmt.Sprintf("%dms", result.DurationMs))
	p.codeCell(result.NaturalResponse)
	p.raw("</tr>")
}

func statusLabel(result runner.TestResult) string {
	if result.Status == runner.StatusHTTPError && result.HTTPStatus != 0 {
		return fmt.Sprintf("%s %d", result.Status, result.HTTPStatus)
	}
	return string(result.Status)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
