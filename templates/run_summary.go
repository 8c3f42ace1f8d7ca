package templates

import (
	"io"
	"text/template"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/usecase"
)

var runSummary = template.Must(template.New("summary").Funcs(template.FuncMap{
	"round": func(d time.Duration) time.Duration { return d.Round(time.Second) },
}).Parse(`Run {{.RunID}} finished in {{round .Duration}}
  targets:   {{.Targets}}
  collected: {{.Collected}}
  appended:  {{.Appended}}
{{- if .Failed}}
  failed:    {{len .Failed}}
{{- range .Failed}}
    - {{.Target.Kind}} {{.Target.ID}}: {{.Err}}
{{- end}}
{{- end}}
`))

// RenderRunSummary writes the human-readable summary of a run
func RenderRunSummary(w io.Writer, report *usecase.RunReport) error {
	return runSummary.Execute(w, report)
}

var airlineTable = template.Must(template.New("airlines").Parse(
	`{{range .}}{{.Name}}	{{.Handle}}
{{end}}`))

// RenderAirlines writes one "name<TAB>handle" line per airline
func RenderAirlines(w io.Writer, airlines []entity.Airline) error {
	return airlineTable.Execute(w, airlines)
}
