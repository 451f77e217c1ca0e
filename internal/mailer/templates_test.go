package mailer

import (
	"strings"
	"testing"
	"time"
)

func TestRenderVerificationBody(t *testing.T) {
	body, err := renderBody(verificationTmpl, "LawHelp", "Ada", "123456", 15*time.Minute)
	if err != nil {
		t.Fatalf("renderBody returned error: %v", err)
	}

	for _, want := range []string{"Ada", "123456", "15m0s", "LawHelp"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestRenderTwoFactorBody(t *testing.T) {
	body, err := renderBody(twoFactorTmpl, "LawHelp", "Ada", "654321", 5*time.Minute)
	if err != nil {
		t.Fatalf("renderBody returned error: %v", err)
	}
	if !strings.Contains(body, "654321") {
		t.Errorf("body missing the code:\n%s", body)
	}
}

func TestRenderBodyEmptyName(t *testing.T) {
	// The default filter covers accounts registered without a display name
	body, err := renderBody(verificationTmpl, "LawHelp", "", "123456", 15*time.Minute)
	if err != nil {
		t.Fatalf("renderBody returned error: %v", err)
	}
	if !strings.Contains(body, "Hello there") {
		t.Errorf("body missing fallback greeting:\n%s", body)
	}
}
