package main

import (
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/app"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	logLevel   = flag.String("log-level", "", "日志级别（debug/info/warn/error），覆盖 FORMATION_LOG_LEVEL")
	logFile    = flag.String("log-file", "", "日志文件路径（滚动），覆盖 FORMATION_LOG_FILE")
	dataDir    = flag.String("data", "", "从磁盘目录读取数据（包含 data/ 的目录），默认使用嵌入数据")
	pluginFile = flag.String("config", "", "编队配置文件（.yaml 或插件参数 .json）")
	mapURL     = flag.String("map-url", "", "从 HTTP 地址读取地图 JSON")
	mute       = flag.Bool("mute", false, "禁用音效")
)

func main() {
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("读取环境配置失败: %v", err)
	}
	applyFlags(&cfg)

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer logger.Sync()

	var fsys fs.FS = dataFS
	if cfg.DataDir != "" {
		fsys = os.DirFS(cfg.DataDir)
		logger.Sugar.Infof("[Main] data from %s", cfg.DataDir)
	}
	embedded.Init(fsys)

	gameApp, err := app.NewApp(cfg, embedded.FS())
	if err != nil {
		logger.Sugar.Errorf("[Main] init failed: %v", err)
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("RPG Formation")

	if err := ebiten.RunGame(gameApp); err != nil {
		logger.Sugar.Errorf("[Main] %v", err)
		log.Fatal(err)
	}
}

// applyFlags 命令行参数覆盖环境变量
func applyFlags(cfg *app.Config) {
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *pluginFile != "" {
		cfg.PluginConfig = *pluginFile
	}
	if *mapURL != "" {
		cfg.MapBaseURL = *mapURL
	}
	if *mute {
		cfg.Mute = true
	}
}
