package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/schema"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	gotCfg *genai.GenerateContentConfig
	gotMod string
}

func (f *fakeModels) GenerateContent(_ context.Context, m string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotCfg = cfg
	f.gotMod = m
	return f.resp, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestRetrieveGrounding(t *testing.T) {
	resp := textResponse(&genai.Part{Text: "thinking", Thought: true}, &genai.Part{Text: "Cold chain demand "}, &genai.Part{Text: "is rising."})
	resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://a.example", Title: "A"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://a.example", Title: "A again"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://b.example"}},
			{},
		},
	}
	fm := &fakeModels{resp: resp}
	p := &Provider{models: fm, model: "gemini-2.5-flash"}

	res := p.Retrieve(context.Background(), provider.RetrievalRequest{Topic: "Logistics", Brief: "trends"})
	require.True(t, res.Succeeded)
	assert.Equal(t, "Cold chain demand is rising.", res.Text)
	assert.Equal(t, []model.Source{
		{Title: "A", URL: "https://a.example"},
		{Title: "https://b.example", URL: "https://b.example"},
	}, res.Sources)
	require.Len(t, fm.gotCfg.Tools, 1)
	assert.NotNil(t, fm.gotCfg.Tools[0].GoogleSearch)
	assert.Equal(t, "gemini-2.5-flash", fm.gotMod)
}

func TestRetrieveEmpty(t *testing.T) {
	p := &Provider{models: &fakeModels{resp: &genai.GenerateContentResponse{}}, model: "m"}
	res := p.Retrieve(context.Background(), provider.RetrievalRequest{Topic: "x"})
	assert.False(t, res.Succeeded)
	assert.ErrorIs(t, res.Err, provider.ErrEmptyResponse)
}

func TestSynthesizeWithSchema(t *testing.T) {
	fm := &fakeModels{resp: textResponse(&genai.Part{Text: `{"title":"X"}`})}
	p := &Provider{models: fm, model: "m"}

	s := schema.Object(
		schema.Field("title", schema.String()),
		schema.Field("tags", schema.ArrayOf(schema.Enum("a", "b"))),
		schema.Optional("note", schema.String().Describe("free text")),
	)
	res := p.Synthesize(context.Background(), provider.SynthesisRequest{System: "sys", Prompt: "go", Schema: s, Temperature: 0.7})
	require.True(t, res.Succeeded)
	assert.Equal(t, `{"title":"X"}`, res.RawText)

	cfg := fm.gotCfg
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-6)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)

	gs := cfg.ResponseSchema
	assert.Equal(t, genai.TypeObject, gs.Type)
	assert.Equal(t, []string{"title", "tags", "note"}, gs.PropertyOrdering)
	assert.Equal(t, []string{"title", "tags"}, gs.Required)
	assert.Equal(t, genai.TypeArray, gs.Properties["tags"].Type)
	assert.Equal(t, []string{"a", "b"}, gs.Properties["tags"].Items.Enum)
	assert.Equal(t, "free text", gs.Properties["note"].Description)
}

func TestSynthesizeFreeText(t *testing.T) {
	fm := &fakeModels{resp: textResponse(&genai.Part{Text: "plain"})}
	p := &Provider{models: fm, model: "m"}
	res := p.Synthesize(context.Background(), provider.SynthesisRequest{Prompt: "go"})
	require.True(t, res.Succeeded)
	assert.Empty(t, fm.gotCfg.ResponseMIMEType)
	assert.Nil(t, fm.gotCfg.ResponseSchema)
}

func TestSynthesizeErrorClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"invalid key", genai.APIError{Code: 400, Message: "API key not valid", Status: "INVALID_ARGUMENT"}, true},
		{"forbidden wrapped", fmt.Errorf("generate: %w", genai.APIError{Code: 403}), true},
		{"overloaded", genai.APIError{Code: 503, Message: "overloaded"}, false},
		{"rate limited", genai.APIError{Code: 429}, false},
		{"dial on port 8400", errors.New("dial tcp 10.0.0.7:8400: connect: connection refused"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := &Provider{models: &fakeModels{err: c.err}, model: "m"}
			res := p.Synthesize(context.Background(), provider.SynthesisRequest{Prompt: "go"})
			assert.False(t, res.Succeeded)
			var perm *provider.PermanentError
			assert.Equal(t, c.permanent, errors.As(res.Err, &perm))
		})
	}
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), Config{Model: "m"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
