// Package voice provides speech capture, transcription and spoken playback
// of assistant answers.
package voice

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML flattens a narrated HTML answer into plain text suitable for
// speech synthesis. Markup that fails to parse is returned unchanged.
func StripHTML(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
