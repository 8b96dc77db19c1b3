package templates

import (
	"strings"
	"testing"
	"time"
)

func TestRenderAdviceDigest(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer() error = %v", err)
	}

	at := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	advice := "Add <b>vegetables</b> & go to bed earlier."

	html, err := r.RenderAdviceDigestHTML("2026-03-14", advice, at)
	if err != nil {
		t.Fatalf("RenderAdviceDigestHTML() error = %v", err)
	}
	if !strings.Contains(html, "2026-03-14") {
		t.Error("HTML digest missing log date")
	}
	if strings.Contains(html, "<b>vegetables</b>") {
		t.Error("HTML digest did not escape advice text")
	}
	if !strings.Contains(html, "&lt;b&gt;vegetables&lt;/b&gt;") {
		t.Errorf("HTML digest missing escaped advice:\n%s", html)
	}

	text, err := r.RenderAdviceDigestText("2026-03-14", advice, at)
	if err != nil {
		t.Fatalf("RenderAdviceDigestText() error = %v", err)
	}
	if !strings.Contains(text, advice) {
		t.Error("text digest should carry advice verbatim")
	}
	if !strings.Contains(text, "2026-03-14 19:30 UTC") {
		t.Errorf("text digest missing timestamp:\n%s", text)
	}
}
