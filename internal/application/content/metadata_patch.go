package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"

	apperrors "quilkalam-api/pkg/errors"
)

// 元数据补丁允许的操作
var allowedMetadataOps = map[string]struct{}{
	"add":     {},
	"replace": {},
	"remove":  {},
}

type metadataPatchOp struct {
	Op   string `json:"op"`
	Path string `json:"path"`
}

// applyMetadataPatch 在现有元数据上应用 JSON Patch，结果必须仍为对象
func applyMetadataPatch(base map[string]any, patchText json.RawMessage) (map[string]any, error) {
	var ops []metadataPatchOp
	if err := json.Unmarshal(patchText, &ops); err != nil {
		return nil, apperrors.Validation("metadataPatch must be a JSON Patch array")
	}
	for i, op := range ops {
		name := strings.ToLower(strings.TrimSpace(op.Op))
		if _, ok := allowedMetadataOps[name]; !ok {
			return nil, apperrors.Validation(fmt.Sprintf("metadataPatch[%d]: unsupported op %q", i, op.Op))
		}
		if !strings.HasPrefix(op.Path, "/") || op.Path == "/" {
			return nil, apperrors.Validation(fmt.Sprintf("metadataPatch[%d]: invalid path %q", i, op.Path))
		}
	}
	if len(ops) == 0 {
		return base, nil
	}

	doc := []byte("{}")
	if base != nil {
		raw, err := json.Marshal(base)
		if err != nil {
			return nil, apperrors.ErrInternalError.WithError(err)
		}
		doc = raw
	}

	p, err := jsonpatch.DecodePatch(patchText)
	if err != nil {
		return nil, apperrors.Validation("invalid metadataPatch: " + err.Error())
	}
	out, err := p.Apply(doc)
	if err != nil {
		return nil, apperrors.Validation("failed to apply metadataPatch: " + err.Error())
	}

	var result map[string]any
	dec := json.NewDecoder(bytes.NewReader(out))
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil || result == nil {
		return nil, apperrors.Validation("metadataPatch must leave metadata as an object")
	}
	return result, nil
}
