package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ppiankov/truevail/internal/llm"
	"github.com/ppiankov/truevail/internal/model"
)

type fakeProvider struct {
	text string
	err  error
	last llm.GenerateRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text, Model: "fake-1"}, nil
}

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return f.err == nil }

func newTestStrategy(t *testing.T, p llm.Provider) *Strategy {
	return NewStrategy(llm.StaticHandle(p), model.LLMConfig{}, zaptest.NewLogger(t))
}

func TestStrategy_Analyze_News(t *testing.T) {
	fake := &fakeProvider{text: "```json\n" + `{"status":"Fake","confidence":0.82,"evidence_used":["No outlet reports the claim"],"reason":"Unsupported claim","correction":"The event did not occur."}` + "\n```"}
	s := newTestStrategy(t, fake)

	result, err := s.Analyze(context.Background(), model.Input{Kind: model.KindNews, Content: "Aliens landed in Paris"})
	require.NoError(t, err)

	assert.Equal(t, model.StatusFake, result.Status)
	assert.InDelta(t, 0.82, result.Confidence, 1e-9)
	assert.Equal(t, model.SourceAI, result.Source)
	require.NotNil(t, result.Correction)
	assert.Equal(t, "The event did not occur.", *result.Correction)

	assert.True(t, fake.last.JSON)
	assert.InDelta(t, 0.1, fake.last.Temperature, 1e-9)
	assert.Equal(t, 1024, fake.last.MaxTokens)
	assert.Nil(t, fake.last.Attachment)
	assert.Contains(t, fake.last.Prompt, "Evaluate journalistic credibility and factual consistency.")
	assert.Contains(t, fake.last.Prompt, "Aliens landed in Paris")
}

func TestStrategy_Analyze_MissingEvidence(t *testing.T) {
	s := newTestStrategy(t, &fakeProvider{text: `{"status":"Real","confidence":0.9,"reason":"Looks fine"}`})

	_, err := s.Analyze(context.Background(), model.Input{Kind: model.KindLink, Content: "https://example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingEvidence)
}

func TestStrategy_Ask_ProviderError(t *testing.T) {
	s := newTestStrategy(t, &fakeProvider{err: errors.New("API error (503): overloaded")})

	_, err := s.Ask(context.Background(), model.Input{Kind: model.KindNews, Content: "text"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrModelUnavailable)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestStrategy_Ask_EmptyAnswer(t *testing.T) {
	s := newTestStrategy(t, &fakeProvider{text: "   "})

	_, err := s.Ask(context.Background(), model.Input{Kind: model.KindNews, Content: "text"})
	assert.ErrorIs(t, err, model.ErrModelUnavailable)
}

func TestStrategy_Ask_NoProvider(t *testing.T) {
	s := NewStrategy(llm.NewHandle(llm.Config{}), model.LLMConfig{}, nil)

	_, err := s.Ask(context.Background(), model.Input{Kind: model.KindNews, Content: "text"})
	assert.ErrorIs(t, err, model.ErrModelUnavailable)
}

func TestStrategy_Ask_InvalidInput(t *testing.T) {
	fake := &fakeProvider{text: "{}"}
	s := newTestStrategy(t, fake)

	_, err := s.Ask(context.Background(), model.Input{Kind: model.KindDeepfake, Content: "photo.jpg"})
	assert.ErrorIs(t, err, model.ErrInputInvalid)

	_, err = s.Ask(context.Background(), model.Input{Kind: model.KindNews, Content: "  "})
	assert.ErrorIs(t, err, model.ErrInputInvalid)
}

func TestStrategy_Analyze_DeepfakeAttachesImage(t *testing.T) {
	fake := &fakeProvider{text: `{"status":"Suspicious","confidence":"medium","reason":"Inconsistent shadows"}`}
	s := newTestStrategy(t, fake)

	result, err := s.Analyze(context.Background(), model.Input{
		Kind:     model.KindDeepfake,
		Content:  "portrait.png",
		Image:    []byte{1, 2, 3},
		MIMEType: "image/png",
	})
	require.NoError(t, err)

	require.NotNil(t, fake.last.Attachment)
	assert.Equal(t, "image/png", fake.last.Attachment.MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, fake.last.Attachment.Data)
	assert.Contains(t, fake.last.Prompt, "JSON SCHEMA:")

	assert.Equal(t, model.StatusSuspicious, result.Status)
	assert.Equal(t, model.ConfidenceMedium, result.ConfidenceLevel)
	require.NotNil(t, result.AnalysisDetails)
	assert.Equal(t, 0.5, result.AnalysisDetails.FakeProbability)
}

func TestStrategy_TruncatesContent(t *testing.T) {
	fake := &fakeProvider{text: `{"status":"Real","confidence":0.7,"evidence_used":["e"],"reason":"r"}`}
	s := NewStrategy(llm.StaticHandle(fake), model.LLMConfig{MaxContentChars: 10}, nil)

	_, err := s.Analyze(context.Background(), model.Input{Kind: model.KindNews, Content: strings.Repeat("a", 20) + "TAIL"})
	require.NoError(t, err)
	assert.Contains(t, fake.last.Prompt, strings.Repeat("a", 10))
	assert.NotContains(t, fake.last.Prompt, strings.Repeat("a", 11))
	assert.NotContains(t, fake.last.Prompt, "TAIL")
}
