package game

import (
	"context"
	"fmt"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/internal/rmmap"
	"github.com/decker502/rpgformation/pkg/config"
)

// FormationRegistry 所有编队定义
//
// 公式编队在创建时计算坐标；地图编队各自持有一个 Loader，
// 地图到达后在 Poll（或任何读取操作）中完成计算。
type FormationRegistry struct {
	defs     []*FormationDefinition
	gridSize float64

	loaders map[int]*rmmap.Loader // formation ID -> loader
	set     rmmap.LoaderSet
	err     error
}

// NewFormationRegistry 从插件配置构建注册表
//
// 参数：
//   - cfg: 编队配置，列表下标即编队 ID
//   - fetcher: 地图数据来源，没有地图编队时可为 nil
//
// 返回：
//   - 公式求值失败时返回配置错误
func NewFormationRegistry(cfg *config.FormationPluginConfig, fetcher rmmap.Fetcher) (*FormationRegistry, error) {
	r := &FormationRegistry{
		gridSize: cfg.GridSize,
		loaders:  make(map[int]*rmmap.Loader),
	}
	for id, fc := range cfg.FormationList {
		def := NewFormationDefinition(id, fc)
		r.defs = append(r.defs, def)

		if def.UsesMap() {
			if fetcher == nil {
				return nil, fmt.Errorf("formation %d (%s) reads map %d but no map fetcher is configured", id, def.Name, def.SourceMapID)
			}
			l := rmmap.NewLoader(def.SourceMapID, fetcher)
			r.loaders[id] = l
			r.set.Add(l)
			continue
		}
		if err := def.ResolvePositions(PositionSource{GridSize: r.gridSize}); err != nil {
			return nil, fmt.Errorf("failed to resolve formation positions: %w", err)
		}
	}
	logger.Sugar.Infof("[FormationRegistry] %d formations, %d map loaders", len(r.defs), r.set.Len())
	return r, nil
}

// StartLoading 发起所有地图请求（每个 Loader 只请求一次）
func (r *FormationRegistry) StartLoading(ctx context.Context) {
	r.set.Start(ctx)
}

// MapLoads 需要从地图计算坐标的编队数量
func (r *FormationRegistry) MapLoads() int {
	return r.set.Len()
}

// PendingLoads 尚未完成的地图数量
func (r *FormationRegistry) PendingLoads() int {
	ready, _ := r.set.Poll()
	return r.set.Len() - ready
}

// Poll 检查地图加载进度，把已到达的地图应用到对应编队
//
// 返回：
//   - done: 所有地图编队都已完成坐标计算
//   - err: 任一加载或解析失败（致命，之后一直返回该错误）
func (r *FormationRegistry) Poll() (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	done := true
	for id, l := range r.loaders {
		def := r.defs[id]
		if def.Resolved() {
			continue
		}
		ready, err := l.Poll()
		if err != nil {
			r.err = fmt.Errorf("formation %d (%s): %w", id, def.Name, err)
			return false, r.err
		}
		if !ready {
			done = false
			continue
		}
		if err := def.ResolvePositions(PositionSource{GridSize: r.gridSize, Map: l.Map()}); err != nil {
			r.err = err
			return false, r.err
		}
		logger.Sugar.Infof("[FormationRegistry] %s: %d slots from map %d", def.Name, len(def.Positions), def.SourceMapID)
	}
	return done, nil
}

// Formations 返回全部编队（按 ID）
// 地图可能在首次访问后才到达，因此每次读取都会先尝试应用已到达的地图
func (r *FormationRegistry) Formations() []*FormationDefinition {
	if _, err := r.Poll(); err != nil {
		logger.Sugar.Errorf("[FormationRegistry] %v", err)
	}
	out := make([]*FormationDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Get 按 ID 查找编队
func (r *FormationRegistry) Get(id int) (*FormationDefinition, bool) {
	if id < 0 || id >= len(r.defs) {
		return nil, false
	}
	if _, err := r.Poll(); err != nil {
		logger.Sugar.Errorf("[FormationRegistry] %v", err)
	}
	return r.defs[id], true
}

// Len 编队数量
func (r *FormationRegistry) Len() int {
	return len(r.defs)
}

// Valid 返回当前队伍下有效的编队（按 ID）
func (r *FormationRegistry) Valid(gate ValidityGate) []*FormationDefinition {
	var out []*FormationDefinition
	for _, def := range r.Formations() {
		if def.IsValidFor(gate) {
			out = append(out, def)
		}
	}
	return out
}
