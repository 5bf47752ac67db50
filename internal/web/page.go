package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

var pageTemplate = template.Must(template.New("board").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{if .HasSelection}}{{.Title}} - {{end}}OddsBoard</title>
<style>
body { font-family: sans-serif; display: flex; gap: 2rem; }
nav a { display: block; padding: .25rem 0; }
nav a.active { font-weight: bold; }
table { border-collapse: collapse; }
th, td { padding: .25rem .75rem; border-bottom: 1px solid #ddd; text-align: left; }
.green { color: #1a7f37; }
.red { color: #cf222e; }
.bookmaker { color: #777; font-size: .8em; }
</style>
</head>
<body>
<nav>
<h2>Leagues</h2>
{{range .Leagues}}<a href="/?league={{.Name}}"{{if .Active}} class="active"{{end}}>{{.Name}} ({{.MatchCount}})</a>
{{else}}<p>-</p>
{{end}}</nav>
{{if .HasSelection}}<main>
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{if .EmptyMessage}}<tr><td colspan="{{len .Columns}}">{{.EmptyMessage}}</td></tr>
{{else}}{{range .Rows}}<tr>
<td>{{.Date}}</td>
<td>{{.Name}}</td>
{{template "odd" .Home}}{{template "odd" .Draw}}{{template "odd" .Away}}
<td{{if .Margin.Color}} class="{{.Margin.Color}}"{{end}}>{{.Margin.Text}}</td>
</tr>
{{end}}{{end}}</tbody>
</table>
</main>{{end}}
</body>
</html>
{{define "odd"}}<td>{{.Text}}{{if .Bookmaker}} <span class="bookmaker">{{.Bookmaker}}</span>{{end}}</td>{{end}}
`))

// RenderPage writes the board as an HTML document
func RenderPage(view models.BoardView) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := s.board.View()
	if league, ok := r.URL.Query()["league"]; ok && len(league) > 0 {
		v = s.board.ViewFor(league[0])
	}

	page, err := RenderPage(v)
	if err != nil {
		s.log.WithError(err).Error("render page")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
