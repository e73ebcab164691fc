package model

import "fmt"

// Competitor 竞品
type Competitor struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// SWOT 分析
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// MarketSize TAM/SAM/SOM
type MarketSize struct {
	TAM         string `json:"tam"`
	SAM         string `json:"sam"`
	SOM         string `json:"som"`
	Explanation string `json:"explanation"`
}

// ResearchReport 市场调研报告
type ResearchReport struct {
	Meta

	Query            string       `json:"query,omitempty"`
	Summary          string       `json:"summary"`
	SWOT             SWOT         `json:"swot"`
	Competitors      []Competitor `json:"competitors"`
	MarketSize       MarketSize   `json:"marketSize"`
	Verdict          string       `json:"verdict"`
	TrendKeyword     string       `json:"trendKeyword"`
	TrendData        []ChartPoint `json:"trendData"`
	CurrentVolume    string       `json:"currentVolume"`
	GrowthPercentage float64      `json:"growthPercentage"`
}

func (*ResearchReport) Task() Task { return TaskResearchReport }

// BrandColor 品牌色
type BrandColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// FontPairing 字体搭配
type FontPairing struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// BrandIdentity 品牌识别
type BrandIdentity struct {
	Meta

	Name        string       `json:"name"`
	Tagline     string       `json:"tagline"`
	LogoConcept string       `json:"logoConcept"`
	Colors      []BrandColor `json:"colors"`
	FontPairing FontPairing  `json:"fontPairing"`
	Voice       string       `json:"voice"`
}

func (*BrandIdentity) Task() Task { return TaskBrandIdentity }

// Benefit 落地页卖点
type Benefit struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// LandingPage 落地页文案
type LandingPage struct {
	Meta

	Headline    string    `json:"headline"`
	Subheadline string    `json:"subheadline"`
	CTA         string    `json:"cta"`
	Benefits    []Benefit `json:"benefits"`
}

func (*LandingPage) Task() Task { return TaskLandingPage }

// MVPSpec MVP 规格
type MVPSpec struct {
	Meta

	CoreFeatures []string `json:"coreFeatures"`
	TechStack    []string `json:"techStack"`
	UserStories  []string `json:"userStories"`
}

func (*MVPSpec) Task() Task { return TaskMVPSpec }

// AdVariant 单条广告素材
type AdVariant struct {
	Platform     string `json:"platform"`
	Headline     string `json:"headline"`
	PrimaryText  string `json:"primaryText"`
	VisualPrompt string `json:"visualPrompt"`
	CTA          string `json:"cta"`
}

// AdCreatives 广告素材集合
type AdCreatives struct {
	Meta

	Strategy       string      `json:"strategy"`
	Variants       []AdVariant `json:"variants"`
	TargetAudience []string    `json:"targetAudience"`
}

func (*AdCreatives) Task() Task { return TaskAdCreatives }

// Kit Builder Studio 一次性生成的全部子资产
type Kit struct {
	IdeaID      string         `json:"ideaId"`
	Brand       *BrandIdentity `json:"brand"`
	LandingPage *LandingPage   `json:"landingPage"`
	MVP         *MVPSpec       `json:"mvp"`
	Ads         *AdCreatives   `json:"ads"`
}

func outOfRange(name string, v, max float64) string {
	return fmt.Sprintf("%s=%g outside expected range 0-%g", name, v, max)
}
