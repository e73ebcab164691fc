package model

// ChartPoint 趋势图数据点
type ChartPoint struct {
	Year   string  `json:"year"`
	Volume float64 `json:"volume"`
}

// BusinessFit 商业契合度维度
type BusinessFit struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Subtext string `json:"subtext"`
	Color   string `json:"color"`
	Tooltip string `json:"tooltip"`
}

// CommunitySignal 社区信号
type CommunitySignal struct {
	Source string `json:"source"`
	Stats  string `json:"stats"`
	Score  string `json:"score"`
}

// Discussion 社区讨论摘录
type Discussion struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	Platform  string `json:"platform"`
	Sentiment string `json:"sentiment"`
}

// SentimentBreakdown 情绪分布（0-100）
type SentimentBreakdown struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// PlatformActivity 各平台活跃度
type PlatformActivity struct {
	Name          string `json:"name"`
	ActivityLevel string `json:"activityLevel"`
	UserIntent    string `json:"userIntent"`
}

// CommunityDeepDive 社区深度分析
type CommunityDeepDive struct {
	SentimentScore     float64            `json:"sentimentScore"`
	SentimentBreakdown SentimentBreakdown `json:"sentimentBreakdown"`
	TopKeywords        []string           `json:"topKeywords"`
	Discussions        []Discussion       `json:"discussions"`
	PlatformBreakdown  []PlatformActivity `json:"platformBreakdown"`
}

// Categories 创意分类
type Categories struct {
	Type       string `json:"type"`
	Market     string `json:"market"`
	Target     string `json:"target"`
	Competitor string `json:"competitor"`
}

// BusinessIdea 每日创意
type BusinessIdea struct {
	Meta

	Title             string            `json:"title"`
	Tags              []string          `json:"tags"`
	OneLiner          string            `json:"oneLiner"`
	Description       string            `json:"description"`
	WhyNow            string            `json:"whyNow"`
	MarketGap         string            `json:"marketGap"`
	ExecutionPlan     []string          `json:"executionPlan"`
	ChartData         []ChartPoint      `json:"chartData"`
	GrowthPercentage  float64           `json:"growthPercentage"`
	CurrentVolume     string            `json:"currentVolume"`
	VolumeNote        string            `json:"volumeNote,omitempty"`
	Keyword           string            `json:"keyword"`
	OpportunityScore  float64           `json:"opportunityScore"`
	ProblemSeverity   float64           `json:"problemSeverity"`
	FeasibilityScore  float64           `json:"feasibilityScore"`
	TimingScore       float64           `json:"timingScore"`
	BusinessFits      []BusinessFit     `json:"businessFits"`
	CommunitySignals  []CommunitySignal `json:"communitySignals"`
	CommunityDeepDive CommunityDeepDive `json:"communityDeepDive"`
	Categories        Categories        `json:"categories"`
}

func (*BusinessIdea) Task() Task { return TaskPrimaryIdea }

// ScoreWarnings 检查评分是否越界。越界值不修正，只返回提示
func (b *BusinessIdea) ScoreWarnings() []string {
	var out []string
	check := func(name string, v, max float64) {
		if v < 0 || v > max {
			out = append(out, outOfRange(name, v, max))
		}
	}
	check("opportunityScore", b.OpportunityScore, 10)
	check("problemSeverity", b.ProblemSeverity, 10)
	check("feasibilityScore", b.FeasibilityScore, 10)
	check("timingScore", b.TimingScore, 10)

	dd := b.CommunityDeepDive
	check("communityDeepDive.sentimentScore", dd.SentimentScore, 100)
	check("communityDeepDive.sentimentBreakdown.positive", dd.SentimentBreakdown.Positive, 100)
	check("communityDeepDive.sentimentBreakdown.neutral", dd.SentimentBreakdown.Neutral, 100)
	check("communityDeepDive.sentimentBreakdown.negative", dd.SentimentBreakdown.Negative, 100)
	return out
}
