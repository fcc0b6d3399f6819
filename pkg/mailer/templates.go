package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<html>
  <body style="font-family: sans-serif; color: #1f2933;">
    <h2>Welcome to MindGrid, {{.Username}}!</h2>
    <p>Your account was created successfully. Sign in and finish setting up your
    workspace to get started.</p>
    <p><a href="{{.SignInURL}}">Sign in to MindGrid</a></p>
    <p style="color: #7b8794; font-size: 12px;">If you did not create this account,
    you can safely ignore this email.</p>
  </body>
</html>`))

// Render renders a named template with data, returning subject, text and html bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "welcome":
		var buf bytes.Buffer
		if err := welcomeTmpl.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		username, _ := data["Username"].(string)
		text = "Welcome to MindGrid, " + username + "! Your account was created successfully."
		return "Welcome to MindGrid", text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
