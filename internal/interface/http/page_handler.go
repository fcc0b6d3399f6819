package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindgrid-app/mindgrid-api/internal/interface/middleware"
)

// PageHandler serves the minimal server-rendered pages behind the gate. The
// real UI is a separate front end; these pages exist so the gated routes
// resolve during development and in tests.
type PageHandler struct {
	tmpl *template.Template
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}">
<head><meta charset="utf-8"><title>MindGrid | {{.Title}}</title></head>
<body>
  <main>
    <h1>{{.Title}}</h1>
  </main>
</body>
</html>`))

func NewPageHandler() *PageHandler {
	return &PageHandler{tmpl: pageTmpl}
}

func (h *PageHandler) render(c *gin.Context, title string) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = h.tmpl.Execute(c.Writer, gin.H{
		"Locale": c.GetString(middleware.CtxLocaleKey),
		"Title":  title,
	})
}

func (h *PageHandler) Home(c *gin.Context)       { h.render(c, "MindGrid") }
func (h *PageHandler) SignIn(c *gin.Context)     { h.render(c, "Sign in") }
func (h *PageHandler) SignUp(c *gin.Context)     { h.render(c, "Sign up") }
func (h *PageHandler) Dashboard(c *gin.Context)  { h.render(c, "Dashboard") }
func (h *PageHandler) Onboarding(c *gin.Context) { h.render(c, "Onboarding") }
