package web

import (
	"html/template"
)

// turnView is the template model for a single transcript entry. Assistant
// answers are narrated HTML produced by the model and are rendered as-is;
// user text is always escaped.
type turnView struct {
	Role string
	Text string
	HTML template.HTML
}

// pageView is the template model for the chat page.
type pageView struct {
	Notice       string
	Turns        []turnView
	VoiceEnabled bool
}

// Notice query parameter values understood by the chat page.
const (
	noticeEmpty         = "empty"
	noticeError         = "error"
	noticeSpeech        = "speech"
	noticeVoiceDisabled = "voice-disabled"
)

var noticeTexts = map[string]string{
	noticeEmpty:         "Please enter a question to continue.",
	noticeError:         "The assistant could not answer, please try again.",
	noticeSpeech:        "The answer could not be spoken aloud.",
	noticeVoiceDisabled: "Voice mode is not enabled.",
}

var pageTemplate = template.Must(template.New("chat").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Vetrina</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; }
.notice { color: #92400e; background: #fef3c7; padding: .5rem .75rem; border-radius: .375rem; }
.turn { margin: 1rem 0; padding: .75rem 1rem; border-radius: .5rem; }
.turn.user { background: #eff6ff; }
.turn.assistant { background: #f3f4f6; }
.turn img { display: block; margin: .5rem 0; }
form { display: flex; gap: .5rem; margin-top: 1.5rem; }
form input[type=text] { flex: 1; padding: .5rem; }
</style>
</head>
<body>
<h1>Vetrina</h1>
{{- if .Notice}}
<p class="notice">{{.Notice}}</p>
{{- end}}
<div class="transcript">
{{- range .Turns}}
<div class="turn {{.Role}}">
{{- if .HTML}}
{{.HTML}}
{{- else}}
<p>{{.Text}}</p>
{{- end}}
</div>
{{- end}}
</div>
<form method="post" action="/chat/send">
<input type="text" name="message" autofocus autocomplete="off" placeholder="Ask about our products">
<button type="submit">Send</button>
</form>
{{- if .VoiceEnabled}}
<form method="post" action="/chat/record">
<button type="submit">Speak</button>
</form>
{{- end}}
</body>
</html>
`))
