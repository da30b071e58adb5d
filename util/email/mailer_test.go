package email

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderVerifyEmail(t *testing.T) {
	m := NewMailer("localhost", 1025, "", "", "Travel Planner <no-reply@example.com>")
	msg, err := m.render("ana@example.com", map[string]interface{}{
		"Name":    "Ana <script>",
		"Code":    "482913",
		"Minutes": 10,
	}, "verifyEmail.tmpl")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Your verification code" {
		t.Errorf("subject = %v", got)
	}
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "ana@example.com" {
		t.Errorf("to = %v", got)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "482913") {
		t.Error("code missing from message")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("html body should escape the name")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	m := NewMailer("localhost", 1025, "", "", "x@example.com")
	if _, err := m.render("a@example.com", nil, "missing.tmpl"); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	m := NewMailer("localhost", 1025, "", "", "no-reply@example.com")
	for _, to := range []string{"", "not-an-address"} {
		if err := m.Send(to, nil, "verifyEmail.tmpl"); err == nil {
			t.Errorf("Send(%q) succeeded", to)
		}
	}
}
