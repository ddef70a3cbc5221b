package session

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Narration templates. All user-visible copy routed to bystanders goes
// through here so phrasing stays in one place.
var narration = template.Must(template.New("narration").Funcs(sprig.TxtFuncMap()).Parse(`
{{- define "arrive" -}}
{{ .Name }} appears from the {{ .Direction }}.
{{- end -}}

{{- define "depart" -}}
{{ .Name }} goes away to the {{ .Direction }}.
{{- end -}}

{{- define "materialize" -}}
{{ .Name }} appears in a flash of light.
{{- end -}}

{{- define "say" -}}
{{ .Name }} says, "{{ .Text }}"
{{- end -}}

{{- define "coconuts" -}}
{{ .Count }} coconut{{ if ne .Count 1 }}s{{ end }}
{{- end -}}
`))

type narrationData struct {
	Name      string
	Direction string
	Text      string
	Count     int
}

func narrate(name string, data narrationData) string {
	var buf bytes.Buffer
	if err := narration.ExecuteTemplate(&buf, name, data); err != nil {
		// Templates are static and parsed at init; a bad name is a bug.
		panic(fmt.Sprintf("narration template %q: %v", name, err))
	}
	return buf.String()
}

// coconutCount phrases a quantity with the right plural.
func coconutCount(n int) string {
	return narrate("coconuts", narrationData{Count: n})
}
