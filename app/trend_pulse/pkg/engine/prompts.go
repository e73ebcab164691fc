package engine

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

// Sectors 创意生成时随机挑选的行业，允许重复命中
var Sectors = []string{
	"HealthTech & Digital Wellness",
	"Sustainable Energy & GreenTech",
	"FinTech & Personal Wealth Management",
	"EdTech & Micro-learning Platforms",
	"AgriTech & Vertical Farming",
	"Pet Tech & Services",
	"Remote Work Infrastructure & Tools",
	"AgeTech & Senior Care",
	"Creator Economy Monetization",
	"Cybersecurity for SMBs",
	"Smart Home & IoT Solutions",
	"Niche E-commerce & D2C Brands",
	"Legal Tech & Compliance",
	"Logistics & Last-Mile Delivery",
	"Mental Health & Mindfulness Apps",
	"Construction Tech (ConTech)",
	"Biohacking & Longevity",
	"AI Agents for Specific Industries",
	"Travel & Local Experiences",
	"PropTech & Real Estate Innovation",
}

const (
	ideaTemperature     float32 = 0.75
	researchTemperature float32 = 0.7
	assetTemperature    float32 = 0.8
	simulateTemperature float32 = 0.9

	vcSystem         = "You are an expert venture capitalist. Your tone is professional, exciting and data-driven."
	researcherSystem = "You are a startup market researcher who is candid about risks."
	builderSystem    = "You are a senior product marketer and startup builder."
)

func sectorBrief(sector string) string {
	return fmt.Sprintf(`Look for rising trends, consumer complaints and emerging market opportunities specifically within the %q sector for the current and next year.

Identify a specific problem that is currently unsolved or poorly solved.

Return a summary text describing:
1. The primary trend in %s.
2. Key problems in this sector based on the search results.
3. Emerging keywords.`, sector, sector)
}

func simulateSectorPrompt(sector string) string {
	return fmt.Sprintf(`Live web search is unavailable. Simulate plausible, realistic market context for the %q sector as of today.

Describe in prose:
1. The primary trend in %s.
2. Key unsolved customer problems.
3. Emerging keywords and rough search interest.

Do not return JSON.`, sector, sector)
}

func ideaPrompt(sector, context string) string {
	return fmt.Sprintf(`Based on this market research for the %s sector:
"""
%s
"""

Create a comprehensive "Idea of the Day" profile.
It should be a specific startup idea that solves a problem identified in the research.
Scores are on a 0-10 scale. Sentiment values are percentages on a 0-100 scale.
The chart data should cover the last five years of search interest for the main keyword.`, sector, strings.TrimSpace(context))
}

func researchBrief(query string) string {
	return fmt.Sprintf(`Research the market viability, competitors and trends for the following business idea: %q.
Look for existing competitors, pricing models, current market size estimates and potential pitfalls.`, query)
}

func researchPrompt(query, context string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Produce a research report about the business idea %q.\n\n", query)
	if context != "" {
		fmt.Fprintf(&sb, "Research context:\n\"\"\"\n%s\n\"\"\"\n\n", strings.TrimSpace(context))
	} else {
		sb.WriteString("No live research is available. Rely on your own knowledge and state estimates plainly.\n\n")
	}
	sb.WriteString("Include a SWOT analysis, 3 key competitors with estimated pricing, market size (TAM/SAM/SOM), " +
		"a final verdict (Go/No-Go/Pivot) and a search trend for the most relevant keyword.")
	return sb.String()
}

func ideaDigest(idea *model.BusinessIdea) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Startup idea: %s\n", idea.Title)
	if idea.OneLiner != "" {
		fmt.Fprintf(&sb, "One-liner: %s\n", idea.OneLiner)
	}
	fmt.Fprintf(&sb, "Description: %s\n", idea.Description)
	if idea.Categories.Target != "" {
		fmt.Fprintf(&sb, "Target customers: %s\n", idea.Categories.Target)
	}
	if idea.Categories.Market != "" {
		fmt.Fprintf(&sb, "Market: %s\n", idea.Categories.Market)
	}
	if idea.Keyword != "" {
		fmt.Fprintf(&sb, "Main keyword: %s\n", idea.Keyword)
	}
	if len(idea.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(idea.Tags, ", "))
	}
	return sb.String()
}

var assetInstructions = map[model.Task]string{
	model.TaskBrandIdentity: "Create a brand identity: a name, a tagline, a logo concept, a palette of 4 colors with hex codes, a font pairing and the brand voice.",
	model.TaskLandingPage:   "Write landing page copy: a headline, a subheadline, a call to action and 3 benefits with short descriptions.",
	model.TaskMVPSpec:       "Specify the minimum viable product: 5 core features, a pragmatic tech stack and 5 user stories.",
	model.TaskAdCreatives:   "Design an ad campaign: an overall strategy, 3 ad variants for different platforms and the target audience segments.",
}

func assetPrompt(task model.Task, idea *model.BusinessIdea) string {
	return ideaDigest(idea) + "\n" + assetInstructions[task]
}
