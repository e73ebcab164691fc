package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/internal/server"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/engine"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/logger"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

func ideaCmd() *cobra.Command {
	var kit bool
	cmd := &cobra.Command{
		Use:   "idea",
		Short: "生成一条每日创意",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			eng, err := server.NewEngine(cfg, logger.NewKratosLogger())
			if err != nil {
				return err
			}

			idea, err := eng.GenerateIdea(cmd.Context(), cfg.Provider, progress())
			if err != nil {
				return err
			}
			if !kit {
				if flagJSON {
					return printJSON(idea)
				}
				printIdea(idea)
				return nil
			}

			k, err := eng.BuildKit(cmd.Context(), idea, cfg.Provider, progress())
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(map[string]any{"idea": idea, "kit": k})
			}
			printIdea(idea)
			return printJSON(k)
		},
	}
	cmd.Flags().BoolVar(&kit, "kit", false, "同时生成品牌、落地页、MVP 与广告素材")
	return cmd
}

func researchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "research <query>",
		Short: "对一个创意做市场调研",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			eng, err := server.NewEngine(cfg, logger.NewKratosLogger())
			if err != nil {
				return err
			}

			report, err := eng.GenerateResearch(cmd.Context(), strings.Join(args, " "), cfg.Provider, progress())
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(report)
			}
			printResearch(report)
			return nil
		},
	}
}

// progress 把运行进度实时打印到 stderr，结果输出保持干净
func progress() engine.Sink {
	return engine.SinkFunc(func(e engine.Event) {
		fmt.Fprintf(os.Stderr, "[%s] %-18s %s\n", e.Task, e.State, e.Message)
	})
}

func printIdea(idea *model.BusinessIdea) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle(idea.Title)
	tw.AppendRows([]table.Row{
		{"One-liner", idea.OneLiner},
		{"Sector", idea.Sector},
		{"Date", idea.Date},
		{"Simulated", idea.IsSimulated},
		{"Keyword", fmt.Sprintf("%s (%s, %+.0f%%)", idea.Keyword, idea.CurrentVolume, idea.GrowthPercentage)},
		{"Opportunity", idea.OpportunityScore},
		{"Problem", idea.ProblemSeverity},
		{"Feasibility", idea.FeasibilityScore},
		{"Timing", idea.TimingScore},
		{"Why now", idea.WhyNow},
	})
	for i, step := range idea.ExecutionPlan {
		tw.AppendRow(table.Row{fmt.Sprintf("Step %d", i+1), step})
	}
	printMeta(tw, &idea.Meta)
	tw.Render()
}

func printResearch(r *model.ResearchReport) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle(r.Query)
	tw.AppendRows([]table.Row{
		{"Verdict", r.Verdict},
		{"Summary", r.Summary},
		{"TAM / SAM / SOM", fmt.Sprintf("%s / %s / %s", r.MarketSize.TAM, r.MarketSize.SAM, r.MarketSize.SOM)},
		{"Trend", fmt.Sprintf("%s (%s, %+.0f%%)", r.TrendKeyword, r.CurrentVolume, r.GrowthPercentage)},
		{"Simulated", r.IsSimulated},
	})
	for _, c := range r.Competitors {
		tw.AppendRow(table.Row{"Competitor", fmt.Sprintf("%s (%s): %s", c.Name, c.Price, c.Description)})
	}
	printMeta(tw, &r.Meta)
	tw.Render()
}

func printMeta(tw table.Writer, m *model.Meta) {
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Provider", m.Provider})
	for _, s := range m.Sources {
		tw.AppendRow(table.Row{"Source", s.URL})
	}
	for _, w := range m.Warnings {
		tw.AppendRow(table.Row{"Warning", w})
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
