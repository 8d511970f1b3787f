// annotate_map 把地图事件的备注改写为编队槽位序号
//
// 用法：
//
//	go run ./cmd/annotate_map -map data/Map001.json 3=0 4=1 5=2
//
// 每个参数为 事件ID=槽位，槽位为 -1 时清除备注。不加 -w 时只打印结果。
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/rpgformation/internal/rmmap"
)

var (
	mapPath = flag.String("map", "", "地图 JSON 文件")
	write   = flag.Bool("w", false, "写回文件")
)

func main() {
	flag.Parse()
	if *mapPath == "" || flag.NArg() == 0 {
		fmt.Println("用法: annotate_map -map data/MapXXX.json [-w] 事件ID=槽位 ...")
		os.Exit(2)
	}

	data, err := os.ReadFile(*mapPath)
	if err != nil {
		fmt.Printf("❌ 读取地图失败: %v\n", err)
		os.Exit(1)
	}

	for _, arg := range flag.Args() {
		eventID, slot, err := parseAssignment(arg)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		data, err = rmmap.SetSlotNote(data, eventID, slot)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ 事件 %d -> 槽位 %d\n", eventID, slot)
	}

	// 改写后必须仍能被读取
	m, err := rmmap.Parse(0, data)
	if err != nil {
		fmt.Printf("❌ 结果无效: %v\n", err)
		os.Exit(1)
	}
	slots := m.SlotEvents()
	last := -1
	for k := range slots {
		last = max(last, k)
	}
	for k := 0; k <= last; k++ {
		ev, ok := slots[k]
		if !ok {
			fmt.Printf("⚠️  槽位 %d 没有事件\n", k)
			continue
		}
		fmt.Printf("  %d: 事件 %d (%d, %d)\n", k, ev.ID, ev.X, ev.Y)
	}

	if !*write {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*mapPath, data, 0o644); err != nil {
		fmt.Printf("❌ 写入失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 已写入 %s\n", *mapPath)
}

func parseAssignment(arg string) (eventID, slot int, err error) {
	left, right, ok := strings.Cut(arg, "=")
	if !ok {
		return 0, 0, fmt.Errorf("参数 %q 应为 事件ID=槽位", arg)
	}
	if eventID, err = strconv.Atoi(left); err != nil {
		return 0, 0, fmt.Errorf("事件ID %q: %w", left, err)
	}
	if slot, err = strconv.Atoi(right); err != nil {
		return 0, 0, fmt.Errorf("槽位 %q: %w", right, err)
	}
	return eventID, slot, nil
}
