package game

import (
	"fmt"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	formationSaveObject   = "formation"
	formationSaveProperty = "party"
)

// FormationSaveStore 把队伍编队状态写入存档
//
// 使用 gdata 跨平台存储，数据为 YAML。
// gdataManager 为 nil 时进入降级模式：保存为空操作，读取返回无存档。
type FormationSaveStore struct {
	gdataManager *gdata.Manager
}

// NewFormationSaveStore 创建存档存储（gdataManager 可为 nil）
func NewFormationSaveStore(gdataManager *gdata.Manager) *FormationSaveStore {
	return &FormationSaveStore{gdataManager: gdataManager}
}

// OpenFormationSaveStore 打开指定应用名的存档存储
// 打开失败时记录警告并返回降级模式的存储
func OpenFormationSaveStore(appName string) *FormationSaveStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		logger.Sugar.Warnf("[FormationSaveStore] gdata unavailable, saves disabled: %v", err)
		return NewFormationSaveStore(nil)
	}
	return NewFormationSaveStore(m)
}

// HasSave 是否存在存档
func (s *FormationSaveStore) HasSave() bool {
	return s.gdataManager != nil && s.gdataManager.ObjectPropExists(formationSaveObject, formationSaveProperty)
}

// Save 保存编队状态
func (s *FormationSaveStore) Save(state *PartyFormationState) error {
	if s.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(state.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal formation state: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(formationSaveObject, formationSaveProperty, data); err != nil {
		return fmt.Errorf("failed to save formation state: %w", err)
	}
	logger.Sugar.Infof("[FormationSaveStore] formation state saved")
	return nil
}

// Load 读取存档并恢复到 state
// 返回：是否读取到存档
func (s *FormationSaveStore) Load(state *PartyFormationState) (bool, error) {
	if !s.HasSave() {
		return false, nil
	}
	raw, err := s.gdataManager.LoadObjectProp(formationSaveObject, formationSaveProperty)
	if err != nil {
		return false, fmt.Errorf("failed to load formation state: %w", err)
	}
	var data PartyFormationData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return false, fmt.Errorf("failed to unmarshal formation state: %w", err)
	}
	state.Restore(data)
	logger.Sugar.Infof("[FormationSaveStore] formation state loaded")
	return true, nil
}
