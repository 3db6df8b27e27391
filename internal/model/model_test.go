package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"news", KindNews},
		{"NEWS", KindNews},
		{"link", KindLink},
		{"advanced", KindAdvanced},
		{"news_advanced", KindAdvanced},
		{" Privacy ", KindPrivacy},
		{"deepfake", KindDeepfake},
		{"", KindNews},
		{"something-else", KindNews},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseKind(tt.in); got != tt.want {
				t.Errorf("ParseKind(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFallbackResult_IsValidForEveryKind(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			r := FallbackResult(kind, "")
			if err := r.Validate(kind); err != nil {
				t.Errorf("Expected valid fallback result, got %v", err)
			}
			if r.Source != SourceFallback {
				t.Errorf("Expected source fallback, got %s", r.Source)
			}
		})
	}
}

func TestFallbackResult_DeepfakeDetails(t *testing.T) {
	r := FallbackResult(KindDeepfake, "no verdict")
	if r.AnalysisDetails == nil {
		t.Fatal("Expected analysis details for deepfake fallback")
	}
	if r.AnalysisDetails.FakeProbability != 0.5 {
		t.Errorf("Expected fake probability 0.5, got %v", r.AnalysisDetails.FakeProbability)
	}
	if r.ConfidenceLevel != ConfidenceLow {
		t.Errorf("Expected LOW confidence level, got %s", r.ConfidenceLevel)
	}
}

func TestResult_Validate_Rejects(t *testing.T) {
	base := func() Result {
		return Result{
			Status:      StatusLikelyReal,
			Confidence:  0.7,
			Evidence:    []string{},
			PrivacyRisk: PrivacyNotApplicable,
		}
	}

	tests := []struct {
		name   string
		kind   Kind
		mutate func(r *Result)
	}{
		{"confidence above one", KindNews, func(r *Result) { r.Confidence = 85 }},
		{"negative confidence", KindNews, func(r *Result) { r.Confidence = -0.1 }},
		{"status from another kind", KindPrivacy, func(r *Result) {}},
		{"nil evidence", KindNews, func(r *Result) { r.Evidence = nil }},
		{"unknown privacy risk", KindNews, func(r *Result) { r.PrivacyRisk = "Severe" }},
		{"deepfake without details", KindDeepfake, func(r *Result) { r.Status = StatusAuthentic }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.mutate(&r)
			if err := r.Validate(tt.kind); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestResult_JSONFieldsAlwaysPresent(t *testing.T) {
	r := FallbackResult(KindNews, "x")
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"status", "confidence", "reason", "evidence_used", "correction", "privacy_risk", "privacy_explanation", "source"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("Expected field %q in JSON output", key)
		}
	}
	if _, ok := fields["analysis_details"]; ok {
		t.Error("Expected analysis_details to be omitted for news")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("fetch: %w", ErrFetchFailed), "fetch_failed"},
		{fmt.Errorf("ask: %w", ErrModelUnavailable), "model_unavailable"},
		{ErrMissingEvidence, "invalid_model_output"},
		{ErrDecodeFailed, "decode_failed"},
		{ErrInputInvalid, "input_invalid"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestConfidenceLevel_Value(t *testing.T) {
	if ConfidenceLow.Value() >= ConfidenceMedium.Value() || ConfidenceMedium.Value() >= ConfidenceHigh.Value() {
		t.Error("Expected confidence levels to map onto increasing values")
	}
	if ConfidenceLevel("bogus").Value() != ConfidenceLow.Value() {
		t.Error("Expected unknown level to map to LOW")
	}
}

func TestAIStatuses_SubsetOfVocabulary(t *testing.T) {
	excluded := []string{StatusLikelyReal, StatusLikelyFake, StatusTrustedSource, StatusSuspiciousSource, StatusNeutralSource, StatusLikelyDeepfake, StatusUncertainLocalHeuristics}

	for _, kind := range Kinds {
		vocabulary := make(map[string]bool)
		for _, s := range Statuses(kind) {
			vocabulary[s] = true
		}
		for _, s := range AIStatuses(kind) {
			if !vocabulary[s] {
				t.Errorf("%s: AI status %q missing from the kind vocabulary", kind, s)
			}
			for _, x := range excluded {
				if s == x {
					t.Errorf("%s: AI vocabulary must not contain %q", kind, s)
				}
			}
		}
	}
}
