package engine

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/palemoky/president/internal/protocol"
)

// Diff 比较同一观察者的两份快照，产出 JSON-Patch 风格的补丁。
// 客户端用补丁就地更新本地状态，无需每次接收完整快照。
// 两份快照序列化后逐字段递归比较；长度不同的数组整体替换。
func Diff(prev, next *Snapshot) ([]protocol.PatchOp, error) {
	oldDoc, err := toDocument(prev)
	if err != nil {
		return nil, err
	}
	newDoc, err := toDocument(next)
	if err != nil {
		return nil, err
	}

	var ops []protocol.PatchOp
	diffValue("", oldDoc, newDoc, &ops)
	return ops, nil
}

func toDocument(s *Snapshot) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("序列化快照失败: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("反序列化快照失败: %w", err)
	}
	return doc, nil
}

func diffValue(path string, old, new any, ops *[]protocol.PatchOp) {
	if reflect.DeepEqual(old, new) {
		return
	}

	oldMap, oldIsMap := old.(map[string]any)
	newMap, newIsMap := new.(map[string]any)
	if oldIsMap && newIsMap {
		diffMap(path, oldMap, newMap, ops)
		return
	}

	oldArr, oldIsArr := old.([]any)
	newArr, newIsArr := new.([]any)
	if oldIsArr && newIsArr && len(oldArr) == len(newArr) {
		for i := range oldArr {
			diffValue(fmt.Sprintf("%s/%d", path, i), oldArr[i], newArr[i], ops)
		}
		return
	}

	*ops = append(*ops, protocol.PatchOp{Op: "replace", Path: path, Value: new})
}

func diffMap(path string, old, new map[string]any, ops *[]protocol.PatchOp) {
	for key, oldVal := range old {
		newVal, exists := new[key]
		if !exists {
			*ops = append(*ops, protocol.PatchOp{Op: "remove", Path: path + "/" + key})
			continue
		}
		diffValue(path+"/"+key, oldVal, newVal, ops)
	}
	for key, newVal := range new {
		if _, exists := old[key]; !exists {
			*ops = append(*ops, protocol.PatchOp{Op: "add", Path: path + "/" + key, Value: newVal})
		}
	}
}
