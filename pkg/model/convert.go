package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"katydid-backoffice-forms/pkg/types"
)

// Decode 把表单原始值解码为模型
func Decode(rec types.Record, out any) error {
	data, err := json.Marshal(types.Export(map[string]any(rec)))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode record into %T: %w", out, err)
	}
	return nil
}

// Encode 把模型转换为表单源记录；数值保留为 json.Number，交给表单按字段类型规整
func Encode(v any) (types.Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rec types.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode %T: %w", v, err)
	}
	return rec, nil
}
