package content

import (
	"encoding/json"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	apperrors "quilkalam-api/pkg/errors"
)

// itemFields 章节可更新字段表；content 同时派生 word_count
var itemFields = []apputil.Field[ItemPatch]{
	{
		Name:   "name",
		Column: "name",
		Value:  apputil.Ptr(func(p ItemPatch) *string { return p.Name }),
	},
	{
		Name:   "description",
		Column: "description",
		Value:  apputil.Ptr(func(p ItemPatch) *string { return p.Description }),
	},
	{
		Name:   "content",
		Column: "content",
		Value:  apputil.Ptr(func(p ItemPatch) *string { return p.Content }),
		Derive: func(v any) map[string]any {
			return map[string]any{"word_count": entity.CountWords(v.(string))}
		},
	},
	{
		Name:   "metadata",
		Column: "metadata",
		Value:  metadataValue,
	},
	{
		Name:   "orderIndex",
		Column: "order_index",
		Value:  apputil.Ptr(func(p ItemPatch) *int { return p.OrderIndex }),
	},
}

// metadataValue 元数据以 JSON 文本绑定
func metadataValue(p ItemPatch) (any, bool, error) {
	if p.Metadata == nil {
		return nil, false, nil
	}
	raw, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, false, apperrors.Validation("metadata must be a JSON object")
	}
	return string(raw), true, nil
}

// BuildItemUpdate 构造章节稀疏更新集合
func BuildItemUpdate(patch ItemPatch) (*apputil.UpdateSet, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperrors.Validation("name cannot be empty")
	}
	return apputil.Build(itemFields, patch)
}

// isEmpty 补丁不包含任何可识别字段
func (p ItemPatch) isEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Content == nil &&
		p.Metadata == nil && !p.hasMetadataPatch() && p.OrderIndex == nil
}
