package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-backoffice-forms/pkg/rules"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRulesCmd(t *testing.T) {
	out, err := run(t, "", "rules", "StoreProduct")
	require.NoError(t, err)
	c, err := rules.ParseCatalogue([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"StoreProduct"}, c.Entities())
	assert.NotEmpty(t, c["StoreProduct"])

	out, err = run(t, "", "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "Discount:")

	_, err = run(t, "", "rules", "Nope")
	assert.Error(t, err)
}

func TestValidateCmd(t *testing.T) {
	record := `{"store":{"code":"S1"},"product":{"code":"P1"},"price":"9.999","useDefaultVendor":true}`

	t.Run("标准输入", func(t *testing.T) {
		out, err := run(t, record, "validate", "StoreProduct", "--mode", "edit")
		require.ErrorIs(t, err, errFormInvalid)

		var res struct {
			Valid  bool `json:"valid"`
			Errors []struct {
				Path string `json:"path"`
				Tag  string `json:"tag"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Equal(t, "price", res.Errors[0].Path)
		assert.Equal(t, "invalidDecimal", res.Errors[0].Tag)
	})

	t.Run("文件输入", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sp.json")
		require.NoError(t, os.WriteFile(path, []byte(strings.Replace(record, "9.999", "9.99", 1)), 0o600))
		out, err := run(t, "", "validate", "StoreProduct", "-f", path, "--mode", "edit")
		require.NoError(t, err, out)
		assert.Contains(t, out, `"valid": true`)
	})

	t.Run("缺少访问模式", func(t *testing.T) {
		_, err := run(t, record, "validate", "StoreProduct")
		assert.Error(t, err)
	})

	t.Run("非法时区", func(t *testing.T) {
		_, err := run(t, record, "validate", "StoreProduct", "--mode", "edit", "--timezone", "Mars/Base")
		assert.Error(t, err)
	})
}
