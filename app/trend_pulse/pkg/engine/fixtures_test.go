package engine

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/provider"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/schema"
)

type fakeProvider struct {
	name       string
	retrieveFn func(ctx context.Context, req provider.RetrievalRequest) provider.RetrievalResult
	synthFn    func(ctx context.Context, req provider.SynthesisRequest) provider.SynthesisResult

	mu        sync.Mutex
	retrieves []provider.RetrievalRequest
	syntheses []provider.SynthesisRequest
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Retrieve(ctx context.Context, req provider.RetrievalRequest) provider.RetrievalResult {
	f.mu.Lock()
	f.retrieves = append(f.retrieves, req)
	f.mu.Unlock()
	if f.retrieveFn == nil {
		return provider.RetrievalFailed(provider.ErrRetrievalUnsupported)
	}
	return f.retrieveFn(ctx, req)
}

func (f *fakeProvider) Synthesize(ctx context.Context, req provider.SynthesisRequest) provider.SynthesisResult {
	f.mu.Lock()
	f.syntheses = append(f.syntheses, req)
	f.mu.Unlock()
	return f.synthFn(ctx, req)
}

func (f *fakeProvider) retrieveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.retrieves)
}

func (f *fakeProvider) synthCalls() []provider.SynthesisRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]provider.SynthesisRequest(nil), f.syntheses...)
}

func ok(text string) provider.SynthesisResult {
	return provider.SynthesisResult{RawText: text, Succeeded: true}
}

func liveRetrieval(text string, sources ...model.Source) func(context.Context, provider.RetrievalRequest) provider.RetrievalResult {
	return func(context.Context, provider.RetrievalRequest) provider.RetrievalResult {
		return provider.RetrievalResult{Text: text, Sources: sources, Succeeded: true}
	}
}

// staticBuilder 每次返回同一组 Provider，并记录收到的配置
type staticBuilder struct {
	set *provider.Set

	mu   sync.Mutex
	cfgs []config.ProviderConfig
}

func (b *staticBuilder) Build(_ context.Context, cfg config.ProviderConfig) (*provider.Set, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfgs = append(b.cfgs, cfg)
	return b.set, nil
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func hostedCfg() config.ProviderConfig {
	return config.ProviderConfig{
		Kind:   config.HostedSearch,
		Hosted: config.HostedConfig{Model: "gemini-2.5-flash", APIKey: "k"},
	}
}

func localCfg(hybrid bool) config.ProviderConfig {
	return config.ProviderConfig{
		Kind:            config.LocalCompatible,
		Endpoint:        "http://localhost:11434/v1",
		Model:           "llama3",
		HybridRetrieval: hybrid,
		Hosted:          config.HostedConfig{Model: "gemini-2.5-flash", APIKey: "k"},
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func ideaFields(title string, opportunity float64) map[string]any {
	return map[string]any{
		"title":            title,
		"tags":             []string{"B2B", "AI"},
		"oneLiner":         "Triage for rural vets",
		"description":      "An assistant that triages pet symptoms before a vet visit.",
		"whyNow":           "Vet shortages are growing.",
		"marketGap":        "No affordable triage tools.",
		"executionPlan":    []string{"Interview 20 clinics", "Ship a symptom checker"},
		"chartData":        []map[string]any{{"year": "2024", "volume": 1200}, {"year": "2025", "volume": 2100}},
		"growthPercentage": 75,
		"currentVolume":    "2.1k",
		"keyword":          "pet triage",
		"opportunityScore": opportunity,
		"problemSeverity":  8,
		"feasibilityScore": 7,
		"timingScore":      9,
		"businessFits": []map[string]any{
			{"label": "Revenue", "value": "$$$", "subtext": "subscriptions", "color": "text-green-500", "tooltip": "recurring"},
		},
		"communitySignals": []map[string]any{{"source": "Reddit", "stats": "3 subreddits", "score": "8 / 10"}},
		"communityDeepDive": map[string]any{
			"sentimentScore":     72,
			"sentimentBreakdown": map[string]any{"positive": 60, "neutral": 30, "negative": 10},
			"topKeywords":        []string{"vet cost"},
			"discussions":        []map[string]any{{"author": "u/dogmom", "text": "Vets are booked for weeks", "platform": "Reddit", "sentiment": "negative"}},
			"platformBreakdown":  []map[string]any{{"name": "Reddit", "activityLevel": "High", "userIntent": "advice"}},
		},
		"categories": map[string]any{"type": "SaaS", "market": "B2C", "target": "Pet owners", "competitor": "Vetster"},
	}
}

func ideaJSON(title string) string { return mustJSON(ideaFields(title, 9)) }

var researchJSON = mustJSON(map[string]any{
	"summary":          "Viable niche.",
	"swot":             map[string]any{"strengths": []string{"s"}, "weaknesses": []string{"w"}, "opportunities": []string{"o"}, "threats": []string{"t"}},
	"competitors":      []map[string]any{{"name": "Acme", "price": "$10/mo", "description": "incumbent"}},
	"marketSize":       map[string]any{"tam": "$1B", "sam": "$100M", "som": "$5M", "explanation": "bottom-up"},
	"verdict":          "Go: demand is real",
	"trendKeyword":     "pet triage",
	"trendData":        []map[string]any{{"year": "2025", "volume": 10}},
	"currentVolume":    "10",
	"growthPercentage": 12,
})

var assetJSON = map[model.Task]string{
	model.TaskBrandIdentity: mustJSON(map[string]any{
		"name":        "Pawse",
		"tagline":     "Calm care",
		"logoConcept": "paw in a pause sign",
		"colors":      []map[string]any{{"name": "Teal", "hex": "#0F766E"}},
		"fontPairing": map[string]any{"primary": "Inter", "secondary": "Lora"},
		"voice":       "warm",
	}),
	model.TaskLandingPage: mustJSON(map[string]any{
		"headline":    "Know before you go",
		"subheadline": "Triage in 2 minutes",
		"cta":         "Start free",
		"benefits":    []map[string]any{{"title": "Fast", "desc": "2 minutes"}},
	}),
	model.TaskMVPSpec: mustJSON(map[string]any{
		"coreFeatures": []string{"symptom checker"},
		"techStack":    []string{"Go"},
		"userStories":  []string{"As an owner, I want answers"},
	}),
	model.TaskAdCreatives: mustJSON(map[string]any{
		"strategy":       "problem-aware",
		"targetAudience": []string{"new pet owners"},
		"variants":       []map[string]any{{"platform": "Instagram", "headline": "h", "primaryText": "p", "visualPrompt": "v", "cta": "c"}},
	}),
}

// taskOf 根据请求携带的 Schema 反查任务
func taskOf(req provider.SynthesisRequest) model.Task {
	for _, t := range model.Tasks {
		if req.Schema != nil && req.Schema == schema.For(t) {
			return t
		}
	}
	return ""
}
