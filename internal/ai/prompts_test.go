package ai

import (
	"strings"
	"testing"

	"github.com/ppiankov/truevail/internal/model"
)

func TestContractFor_EveryKind(t *testing.T) {
	for _, kind := range model.Kinds {
		c := ContractFor(kind)
		if c.Kind != kind {
			t.Errorf("Expected contract for %s, got %s", kind, c.Kind)
		}
		if c.System == "" || c.Context == "" || c.Schema == "" || len(c.Rules) == 0 {
			t.Errorf("Incomplete contract for %s: %+v", kind, c)
		}
	}

	if ContractFor("unknown").Kind != model.KindNews {
		t.Error("Expected unknown kinds to use the news contract")
	}
}

func TestBuildPrompt_StatusVocabulary(t *testing.T) {
	tests := []struct {
		kind model.Kind
		want string
	}{
		{model.KindNews, `"status": "Real | Fake | Misleading | Unverified"`},
		{model.KindLink, `"status": "Safe | Suspicious | Phishing | Malicious | Unverified"`},
		{model.KindAdvanced, "Analyze manipulation, framing, and emotional bias."},
		{model.KindPrivacy, "Low Risk | Medium Risk | High Risk"},
		{model.KindDeepfake, `"confidence": "LOW | MEDIUM | HIGH"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			prompt := BuildPrompt(ContractFor(tt.kind), "content", 0)
			if !strings.Contains(prompt, tt.want) {
				t.Errorf("Expected prompt to contain %q, got:\n%s", tt.want, prompt)
			}
			if !strings.Contains(prompt, "1. ") {
				t.Error("Expected numbered instructions")
			}
		})
	}
}

func TestBuildPrompt_EvidenceRules(t *testing.T) {
	prompt := BuildPrompt(ContractFor(model.KindNews), "text", 0)

	for _, want := range []string{
		"Output MUST be valid JSON. No markdown formatting.",
		"evidence_used",
		"confidence at most 0.3",
		"CONTENT:\ntext",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 0, "hello"},
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, expected %q", tt.in, tt.n, got, tt.want)
		}
	}
}
