package service_test

import (
	"strings"
	"testing"

	"github.com/unclebandit/broadcast-backend/internal/service"
)

func TestBuildEmailHTMLEscapesMessage(t *testing.T) {
	got := service.BuildEmailHTML(`<script>alert("x")</script>`, nil)
	if strings.Contains(got, "<script>") {
		t.Errorf("message must be escaped, got %s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped markup, got %s", got)
	}
}

func TestBuildEmailHTMLInlinesAttachments(t *testing.T) {
	got := service.BuildEmailHTML("Hello", []string{
		"https://cdn.example.com/a.png",
		"",
		"https://cdn.example.com/b.png",
	})

	if !strings.Contains(got, "<p>Hello</p>") {
		t.Errorf("expected message paragraph, got %s", got)
	}
	if strings.Count(got, "<img") != 2 {
		t.Errorf("expected 2 inline images, got %s", got)
	}
	if !strings.Contains(got, `src="https://cdn.example.com/a.png"`) {
		t.Errorf("expected attachment src, got %s", got)
	}
}
