package present

import (
	"html/template"
	"io"
)

var listItemTemplate = template.Must(template.New("workout").Parse(`<li class="workout workout--{{.Type}}" data-id="{{.ID}}">
  <h2 class="workout__title">{{.Description}}</h2>
{{- range .Details}}
  <div class="workout__details">
    <span class="workout__icon">{{.Icon}}</span>
    <span class="workout__value">{{.Value}}</span>
    <span class="workout__unit">{{.Unit}}</span>
  </div>
{{- end}}
</li>
`))

// WriteHTML renders a list item as the markup the workout list expects.
func WriteHTML(w io.Writer, item ListItem) error {
	return listItemTemplate.Execute(w, item)
}
