package schema

import (
	"fmt"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

func chartSeries() *Schema {
	return ArrayOf(Object(
		Field("year", String().Describe("period label, e.g. 2024")),
		Field("volume", Number()),
	))
}

var businessIdea = Object(
	Field("title", String()),
	Field("tags", ArrayOf(String())),
	Field("oneLiner", String()),
	Field("description", String()),
	Field("whyNow", String()),
	Field("marketGap", String()),
	Field("executionPlan", ArrayOf(String().Describe("one concrete execution step"))),
	Field("chartData", chartSeries()),
	Field("growthPercentage", Number()),
	Field("currentVolume", String().Describe("search volume, e.g. 9.9k")),
	Optional("volumeNote", String()),
	Field("keyword", String()),
	Field("opportunityScore", Number().Describe("0-10")),
	Field("problemSeverity", Number().Describe("0-10")),
	Field("feasibilityScore", Number().Describe("0-10")),
	Field("timingScore", Number().Describe("0-10")),
	Field("businessFits", ArrayOf(Object(
		Field("label", String()),
		Field("value", String()),
		Field("subtext", String()),
		Field("color", String().Describe("tailwind text color class, e.g. text-blue-500")),
		Field("tooltip", String()),
	))),
	Field("communitySignals", ArrayOf(Object(
		Field("source", String()),
		Field("stats", String()),
		Field("score", String().Describe("e.g. 8 / 10")),
	))),
	Field("communityDeepDive", Object(
		Field("sentimentScore", Number().Describe("0-100")),
		Field("sentimentBreakdown", Object(
			Field("positive", Number()),
			Field("neutral", Number()),
			Field("negative", Number()),
		)),
		Field("topKeywords", ArrayOf(String())),
		Field("discussions", ArrayOf(Object(
			Field("author", String()),
			Field("text", String()),
			Field("platform", String()),
			Field("sentiment", Enum("positive", "neutral", "negative")),
		))),
		Field("platformBreakdown", ArrayOf(Object(
			Field("name", String()),
			Field("activityLevel", Enum("High", "Medium", "Low")),
			Field("userIntent", String()),
		))),
	)),
	Field("categories", Object(
		Field("type", String()),
		Field("market", String()),
		Field("target", String()),
		Field("competitor", String()),
	)),
)

var researchReport = Object(
	Field("summary", String()),
	Field("swot", Object(
		Field("strengths", ArrayOf(String())),
		Field("weaknesses", ArrayOf(String())),
		Field("opportunities", ArrayOf(String())),
		Field("threats", ArrayOf(String())),
	)),
	Field("competitors", ArrayOf(Object(
		Field("name", String()),
		Field("price", String()),
		Field("description", String()),
	))),
	Field("marketSize", Object(
		Field("tam", String()),
		Field("sam", String()),
		Field("som", String()),
		Field("explanation", String()),
	)),
	Field("verdict", String().Describe("Go, No-Go or Pivot, then a one-sentence rationale")),
	Field("trendKeyword", String()),
	Field("trendData", chartSeries()),
	Field("currentVolume", String()),
	Field("growthPercentage", Number()),
)

var brandIdentity = Object(
	Field("name", String()),
	Field("tagline", String()),
	Field("logoConcept", String()),
	Field("colors", ArrayOf(Object(
		Field("name", String()),
		Field("hex", String().Describe("#RRGGBB")),
	))),
	Field("fontPairing", Object(
		Field("primary", String()),
		Field("secondary", String()),
	)),
	Field("voice", String()),
)

var landingPage = Object(
	Field("headline", String()),
	Field("subheadline", String()),
	Field("cta", String()),
	Field("benefits", ArrayOf(Object(
		Field("title", String()),
		Field("desc", String()),
	))),
)

var mvpSpec = Object(
	Field("coreFeatures", ArrayOf(String())),
	Field("techStack", ArrayOf(String())),
	Field("userStories", ArrayOf(String().Describe("As a <user>, I want <goal> so that <benefit>"))),
)

var adCreatives = Object(
	Field("strategy", String()),
	Field("variants", ArrayOf(Object(
		Field("platform", String().Describe("e.g. Facebook/Instagram, LinkedIn, Google Search")),
		Field("headline", String()),
		Field("primaryText", String()),
		Field("visualPrompt", String()),
		Field("cta", String()),
	))),
	Field("targetAudience", ArrayOf(String())),
)

var registry = map[model.Task]*Schema{
	model.TaskPrimaryIdea:    businessIdea,
	model.TaskResearchReport: researchReport,
	model.TaskBrandIdentity:  brandIdentity,
	model.TaskLandingPage:    landingPage,
	model.TaskMVPSpec:        mvpSpec,
	model.TaskAdCreatives:    adCreatives,
}

// For 返回任务对应的 Schema。未注册的任务属于编程错误，直接 panic
func For(task model.Task) *Schema {
	s, ok := registry[task]
	if !ok {
		panic(fmt.Sprintf("schema: task %q is not registered", task))
	}
	return s
}
