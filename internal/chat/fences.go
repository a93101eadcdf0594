package chat

import "strings"

// fenceTags are the language tags the model is known to emit on code fences.
var fenceTags = []string{"```sql", "```html", "```"}

// stripFences removes markdown code-fence delimiters from model output.
// The models are instructed not to fence their answers, but they sometimes
// do anyway; downstream consumers expect raw SQL or raw HTML.
func stripFences(s string) string {
	for _, tag := range fenceTags {
		s = strings.ReplaceAll(s, tag, "")
	}
	return strings.TrimSpace(s)
}
