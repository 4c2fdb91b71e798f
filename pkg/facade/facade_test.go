package facade

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-backoffice-forms/pkg/validator"
)

func TestQueryNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Query
		wantSize   int
		wantOffset int
	}{
		{"默认页大小", Query{}, 20, 0},
		{"负页码", Query{Page: -3, Size: 10}, 10, 0},
		{"超大页", Query{Page: 2, Size: 10000}, 500, 1000},
		{"普通", Query{Page: 3, Size: 25}, 25, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in.Normalize()
			assert.Equal(t, tt.wantSize, q.Size)
			assert.Equal(t, tt.wantOffset, q.Offset())
		})
	}
}

func TestRequestValidation(t *testing.T) {
	many := func(prefix string, n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("%s%d", prefix, i)
		}
		return out
	}

	tests := []struct {
		name    string
		obj     any
		scene   validator.ValidateScene
		path    string
		wantTag string
	}{
		{"查询合法", &Query{Page: 1, Size: 10, Sort: "code"}, validator.SceneSearch, "", ""},
		{"负页码", &Query{Page: -1}, validator.SceneSearch, "page", "gte"},
		{"批量新增缺少门店", &MassAddRequest{Products: []string{"P1"}}, validator.SceneMassAdd, "stores", "required"},
		{"批量新增重复商品", &MassAddRequest{Stores: []string{"S1"}, Products: []string{"P1", "P1"}}, validator.SceneMassAdd, "products", "unique"},
		{"批量新增组合超限", &MassAddRequest{Stores: many("S", 101), Products: many("P", 100)}, validator.SceneMassAdd, "stores", validator.TagMax},
		{"批量新增合法", &MassAddRequest{Stores: []string{"S1"}, Products: []string{"P1", "P2"}}, validator.SceneMassAdd, "", ""},
		{"批量更新缺少 id", &MassUpdateRequest{}, validator.SceneMassUpdate, "ids", "required"},
		{"批量更新非法 id", &MassUpdateRequest{IDs: []int64{1, 0}}, validator.SceneMassUpdate, "ids", "gt"},
		{"批量更新合法", &MassUpdateRequest{IDs: []int64{1, 2}}, validator.SceneMassUpdate, "", ""},
		{"其他场景不校验", &MassUpdateRequest{}, validator.SceneMassAdd, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := validator.Struct(tt.obj, tt.scene)
			if tt.wantTag == "" {
				assert.Nil(t, ve)
				return
			}
			require.NotNil(t, ve)
			errs := ve.ByPath(tt.path)
			require.Len(t, errs, 1, ve.Error())
			assert.Equal(t, tt.wantTag, errs[0].Tag)
		})
	}
}
