package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"jobradar-engine/internal/scrape/types"
)

// BuildDigest renders the notification mail for a batch of newly found jobs.
// The body is a single HTML part, ready for SMTP DATA.
func BuildDigest(from, to string, jobs []types.JobRow, now time.Time) (subject string, msg []byte) {
	subject = fmt.Sprintf("%d new jobs found - %s", len(jobs), now.Format("2006-01-02"))

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(digestHTML(jobs))

	return subject, []byte(b.String())
}

func digestHTML(jobs []types.JobRow) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>Found %d new jobs matching your criteria</h2>", len(jobs))
	b.WriteString("<table border=\"1\" cellpadding=\"4\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Title</th><th>Company</th><th>Location</th><th>Source</th><th>Link</th></tr>")
	for _, j := range jobs {
		fmt.Fprintf(&b,
			"<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td><a href=%q>apply</a></td></tr>",
			html.EscapeString(j.Title),
			html.EscapeString(j.Company),
			html.EscapeString(j.Location),
			html.EscapeString(j.SeenFromSource),
			j.URL,
		)
	}
	b.WriteString("</table></body></html>")
	return b.String()
}
