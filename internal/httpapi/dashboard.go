package httpapi

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Controller Status</title>
    <style>
        table { border-collapse: collapse; }
        th, td { border: 1px solid #ccc; padding: 8px; }
        .online { color: green; }
        .offline { color: red; }
        .unknown { color: gray; }
    </style>
</head>
<body>
    <h2>Controller Status</h2>
    <table>
        <tr><th>Host</th><th>Status</th><th>Last Change (UTC)</th></tr>
        {{range .}}
        <tr>
            <td>{{.Host}}</td>
            <td class="{{.State}}">{{.State}}</td>
            <td>{{if .LastChange.IsZero}}&ndash;{{else}}{{.LastChange.UTC.Format "2006-01-02 15:04:05"}}{{end}}</td>
        </tr>
        {{end}}
    </table>
</body>
</html>
`))

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, sortedEntries(s.Table.Current())); err != nil {
		s.Logger.Error("render_dashboard", zap.Error(err))
	}
}
