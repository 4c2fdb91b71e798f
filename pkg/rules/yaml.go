package rules

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalogue 实体名到依赖边列表的映射
type Catalogue map[string][]Edge

// Entities 排序后的实体名
func (c Catalogue) Entities() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// YAML 按实体名排序导出
func (c Catalogue) YAML() ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range c.Entities() {
		var edges yaml.Node
		if err := edges.Encode(c[name]); err != nil {
			return nil, fmt.Errorf("encode edges of %s: %w", name, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, &edges)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseCatalogue 解析 YAML 并逐个实体做静态检查
func ParseCatalogue(data []byte) (Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse rule catalogue: %w", err)
	}
	for _, name := range c.Entities() {
		if err := Check(name, c[name]); err != nil {
			return nil, err
		}
	}
	return c, nil
}
