package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

const Welcome = "welcome"

var welcomeHTML = template.Must(template.New(Welcome).Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #1f2933;">
    <h2>Welcome to {{.AppName}}, {{.Name}}!</h2>
    <p>Your account was created with the email <strong>{{.Email}}</strong>.</p>
    <p>You can now sign in, manage your events, and keep your address book up to date.</p>
    <p><a href="{{.LoginURL}}">Sign in to {{.AppName}}</a></p>
  </body>
</html>`))

// Render renders the named template with data and returns subject, text and
// HTML bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case Welcome:
		var buf bytes.Buffer
		if err = welcomeHTML.Execute(&buf, data); err != nil {
			return "", "", "", fmt.Errorf("render %s: %w", name, err)
		}
		subject = fmt.Sprintf("Welcome to %v", data["AppName"])
		text = fmt.Sprintf("Welcome to %v, %v! Sign in at %v", data["AppName"], data["Name"], data["LoginURL"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
}
