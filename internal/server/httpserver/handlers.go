package httpserver

import (
	"fmt"
	"html/template"
	"net/http"
)

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Crusty Server</title></head>
<body>
<h1>Crusty Server</h1>
{{if .Error}}<p style="color:red">{{.Error}}</p>{{end}}
<form method="get" action="/">
  <label>Access token: <input type="password" name="token"></label>
  <button type="submit">View status</button>
</form>
</body>
</html>
`

const statusShell = `<!DOCTYPE html>
<html>
<head>
<title>Crusty Server Status</title>
<meta http-equiv="refresh" content="30">
</head>
<body>
<h1>System Status</h1>
<pre id="report">Loading…</pre>
<script>
fetch('/api/status?token={{.Token}}')
  .then(r => r.ok ? r.text() : Promise.reject(r.status))
  .then(t => document.getElementById('report').textContent = t)
  .catch(e => document.getElementById('report').textContent = 'Error: ' + e);
</script>
</body>
</html>
`

var (
	loginTpl  = template.Must(template.New("login").Parse(loginPage))
	statusTpl = template.Must(template.New("shell").Parse(statusShell))
)

// handleStatus serves the plaintext report to token-bearing clients.
// Missing or unknown tokens get a plain 401 here; the human-friendly path
// is the landing page.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	username, ok := s.authorize(r)
	if !ok {
		s.logger.Warn(r.Context(), "rejected status request", "remote", r.RemoteAddr)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	s.logger.Info(r.Context(), "serving status report", "user", username, "remote", r.RemoteAddr)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.report.Report(r.Context()))
}

// handleIndex serves the HTML shell for a valid token and the login page
// otherwise. An invalid token still answers 200: the page explains the
// problem and lets the user retry.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if token == "" {
		_ = loginTpl.Execute(w, struct{ Error string }{})
		return
	}

	username, err := s.validator.ValidateToken(token)
	if err != nil {
		s.logger.Warn(r.Context(), "rejected landing request", "remote", r.RemoteAddr)
		_ = loginTpl.Execute(w, struct{ Error string }{Error: "Invalid access token"})
		return
	}

	s.logger.Info(r.Context(), "serving status shell", "user", username)
	_ = statusTpl.Execute(w, struct{ Token string }{Token: token})
}
