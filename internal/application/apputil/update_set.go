package apputil

import (
	"sort"
	"time"
)

// Field 可更新字段：从补丁中取值，并可派生附带列
type Field[P any] struct {
	Name   string
	Column string
	// Value 返回绑定值以及字段是否出现在补丁中
	Value func(patch P) (any, bool, error)
	// Derive 根据主列的值计算附带列
	Derive func(value any) map[string]any
}

// UpdateSet 稀疏更新的列集合，值始终作为绑定参数传递
type UpdateSet struct {
	values map[string]any
	fields []string
}

// Build 按固定字段表构造更新集合
func Build[P any](fields []Field[P], patch P) (*UpdateSet, error) {
	set := &UpdateSet{values: make(map[string]any)}
	for _, f := range fields {
		v, ok, err := f.Value(patch)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		set.values[f.Column] = v
		set.fields = append(set.fields, f.Name)
		if f.Derive != nil {
			for col, dv := range f.Derive(v) {
				set.values[col] = dv
			}
		}
	}
	return set, nil
}

// Empty 没有任何字段出现
func (s *UpdateSet) Empty() bool {
	return len(s.fields) == 0
}

// Fields 出现的字段名，按字段表顺序
func (s *UpdateSet) Fields() []string {
	return s.fields
}

// Columns 将写入的列名（不含 updated_at），已排序
func (s *UpdateSet) Columns() []string {
	cols := make([]string, 0, len(s.values))
	for col := range s.values {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Values 生成列到值的映射，非空时附带 updated_at
func (s *UpdateSet) Values(now time.Time) map[string]any {
	if s.Empty() {
		return nil
	}
	out := make(map[string]any, len(s.values)+1)
	for col, v := range s.values {
		out[col] = v
	}
	out["updated_at"] = now
	return out
}

// Ptr 指针字段的取值器
func Ptr[P, T any](get func(P) *T) func(P) (any, bool, error) {
	return func(p P) (any, bool, error) {
		v := get(p)
		if v == nil {
			return nil, false, nil
		}
		return *v, true, nil
	}
}
