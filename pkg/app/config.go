package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config 定义应用启动配置
//
// 所有字段都可以由环境变量覆盖，命令行参数（main.go）优先级最高。
type Config struct {
	// LogLevel 日志级别：debug/info/warn/error
	LogLevel string `env:"FORMATION_LOG_LEVEL" envDefault:"info"`
	// LogFile 日志文件路径，为空时只输出到控制台
	LogFile string `env:"FORMATION_LOG_FILE"`
	// DataDir 数据目录所在的项目根目录，为空时使用嵌入的数据
	DataDir string `env:"FORMATION_DATA_DIR"`
	// PluginConfig 编队插件配置（.yaml 或编辑器导出的参数 .json）
	PluginConfig string `env:"FORMATION_CONFIG" envDefault:"data/formation.yaml"`
	// DatabaseConfig 角色/状态/开关数据
	DatabaseConfig string `env:"FORMATION_DATABASE" envDefault:"data/database.yaml"`
	// MapBaseURL 非空时通过 HTTP 下载地图文件
	MapBaseURL string `env:"FORMATION_MAP_URL"`
	// SaveName 存档目录名（gdata 应用名）
	SaveName string `env:"FORMATION_SAVE_NAME" envDefault:"rpgformation"`
	// Mute 关闭音效
	Mute bool `env:"FORMATION_MUTE"`
}

// LoadConfig 从环境变量读取配置
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
