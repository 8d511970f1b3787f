package game

import (
	"regexp"
	"sort"
	"strings"

	"github.com/decker502/rpgformation/pkg/config"
)

var metaPattern = regexp.MustCompile(`<([^<>:]+)(:?)([^>]*)>`)

// ParseMeta 解析备注中的元数据标签
//
// <Tag> 解析为 "true"，<Tag:value> 解析为 value（去除首尾空白）。
// 同名标签以最后一个为准。
func ParseMeta(note string) map[string]string {
	meta := make(map[string]string)
	for _, m := range metaPattern.FindAllStringSubmatch(note, -1) {
		if m[2] == ":" {
			meta[m[1]] = strings.TrimSpace(m[3])
		} else {
			meta[m[1]] = "true"
		}
	}
	return meta
}

// StateDatabase 状态定义及其元数据
type StateDatabase struct {
	defs       map[int]config.StateDef
	meta       map[int]map[string]string
	invalidTag string
}

// NewStateDatabase 从配置构建状态数据库
// invalidTag 为使编队失效的元数据标签名
func NewStateDatabase(states []config.StateDef, invalidTag string) *StateDatabase {
	db := &StateDatabase{
		defs:       make(map[int]config.StateDef, len(states)),
		meta:       make(map[int]map[string]string, len(states)),
		invalidTag: invalidTag,
	}
	if db.invalidTag == "" {
		db.invalidTag = config.DefaultInvalidStateTag
	}
	for _, s := range states {
		db.defs[s.ID] = s
		db.meta[s.ID] = ParseMeta(s.Note)
	}
	return db
}

// Name 返回状态名称，未定义时返回空串
func (db *StateDatabase) Name(stateID int) string {
	return db.defs[stateID].Name
}

// Meta 返回状态的元数据
func (db *StateDatabase) Meta(stateID int) map[string]string {
	return db.meta[stateID]
}

// IsFormationInvalid 状态是否使编队失效
func (db *StateDatabase) IsFormationInvalid(stateID int) bool {
	v, ok := db.meta[stateID][db.invalidTag]
	if !ok {
		return false
	}
	switch strings.ToLower(v) {
	case "false", "0", "off", "no":
		return false
	}
	return true
}

// InvalidatingStates 返回所有使编队失效的状态 ID（升序）
func (db *StateDatabase) InvalidatingStates() []int {
	var ids []int
	for id := range db.defs {
		if db.IsFormationInvalid(id) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
