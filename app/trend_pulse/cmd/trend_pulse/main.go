package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/config"
	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/logger"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name = "trend_pulse"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string
	// flagJSON 以 JSON 输出结果
	flagJSON bool

	id, _ = os.Hostname()
)

var rootCmd = &cobra.Command{
	Use:           "trend_pulse",
	Short:         "TrendPulse 商业创意与市场调研生成器",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// .env 中的 GEMINI_API_KEY 等密钥优先加载，文件不存在时忽略
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagconf, "conf", "app/trend_pulse/configs/config.yaml", "config path, eg: --conf config.yaml")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output JSON")
	rootCmd.AddCommand(serveCmd(), ideaCmd(), researchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap 加载配置并初始化日志，日志初始化失败时降级为默认输出
func bootstrap() (*config.Config, error) {
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "无法初始化日志: %v\n", err)
	}
	return cfg, nil
}
