// formation_check 加载编队配置和地图，打印每个编队解析后的槽位坐标
//
// 用法：
//
//	go run ./cmd/formation_check [-root .] [-config data/formation.yaml] [-members 4]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/decker502/rpgformation/internal/rmmap"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/embedded"
	"github.com/decker502/rpgformation/pkg/game"
)

var (
	root       = flag.String("root", ".", "包含 data/ 的目录")
	configPath = flag.String("config", "data/formation.yaml", "编队配置文件（.yaml 或插件参数 .json）")
	members    = flag.Int("members", 4, "按多少名战斗成员检查槽位是否足够")
	timeout    = flag.Duration("timeout", 10*time.Second, "等待地图加载的超时")
)

func main() {
	flag.Parse()
	embedded.Init(os.DirFS(*root))

	if !embedded.Exists(*configPath) {
		fmt.Printf("❌ 找不到配置文件 %s（root=%s）\n", *configPath, *root)
		os.Exit(1)
	}
	data, err := embedded.ReadFile(*configPath)
	if err != nil {
		fmt.Printf("❌ 读取配置失败: %v\n", err)
		os.Exit(1)
	}
	var cfg *config.FormationPluginConfig
	if strings.EqualFold(path.Ext(*configPath), ".json") {
		cfg, err = config.FromPluginParameters(data)
	} else {
		cfg, err = config.ParseFormationConfig(data)
	}
	if err != nil {
		fmt.Printf("❌ 配置无效: %v\n", err)
		os.Exit(1)
	}

	registry, err := game.NewFormationRegistry(cfg, rmmap.FSFetcher{FS: embedded.FS(), Dir: "data"})
	if err != nil {
		fmt.Printf("❌ 编队解析失败: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	registry.StartLoading(ctx)
	for {
		done, err := registry.Poll()
		if err != nil {
			fmt.Printf("❌ 地图加载失败: %v\n", err)
			os.Exit(1)
		}
		if done {
			break
		}
		if ctx.Err() != nil {
			fmt.Printf("❌ 地图加载超时（剩余 %d 个）\n", registry.PendingLoads())
			os.Exit(1)
		}
		time.Sleep(10 * time.Millisecond)
	}

	maps, _ := embedded.Glob("data/Map*.json")
	fmt.Printf("✅ %d 个编队，%d 个地图文件\n", registry.Len(), len(maps))
	short := 0
	for _, def := range registry.Formations() {
		source := "公式"
		if def.UsesMap() {
			source = fmt.Sprintf("地图 %d", def.SourceMapID)
		}
		fmt.Printf("\n[%d] %s (%s, 需要 %d 人, 开关 %d)\n", def.ID, def.Name, source, def.RequiredMembers, def.RequiredSwitch)
		for i, p := range def.Positions {
			state := ""
			if p.StateID != 0 {
				state = fmt.Sprintf(" 状态 %d", p.StateID)
			}
			fmt.Printf("  %d: (%.0f, %.0f)%s\n", i, p.X, p.Y, state)
		}
		if len(def.Positions) < *members {
			fmt.Printf("  ⚠️  只有 %d 个槽位，少于 %d 名成员\n", len(def.Positions), *members)
			short++
		}
	}

	if short > 0 {
		fmt.Printf("\n❌ %d 个编队槽位不足\n", short)
		os.Exit(1)
	}
}
