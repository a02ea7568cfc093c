package templates

import (
	"strings"
	"testing"
)

func TestRenderWelcome(t *testing.T) {
	subject, text, html, err := Render(Welcome, map[string]any{
		"AppName":  "evently",
		"Name":     "Alice",
		"Email":    "alice@example.com",
		"LoginURL": "https://app.example.com/login",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if subject != "Welcome to evently" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(text, "Alice") || !strings.Contains(text, "https://app.example.com/login") {
		t.Errorf("text = %q", text)
	}
	for _, want := range []string{"Alice", "alice@example.com", "https://app.example.com/login"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	_, _, html, err := Render(Welcome, map[string]any{
		"AppName":  "evently",
		"Name":     "<script>alert(1)</script>",
		"Email":    "x@example.com",
		"LoginURL": "https://app.example.com/login",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("template must escape user-controlled values")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("nope", nil); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}
