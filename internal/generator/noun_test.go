package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNoun(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"末尾复数名词", "Count users", "users", true},
		{"单数补s", "count every invoice", "invoices", true},
		{"跳过虚词", "count orders for the last", "orders", true},
		{"跳过数字", "count products 42", "products", true},
		{"大小写归一", "COUNT ACCOUNTS", "accounts", true},
		{"全是虚词", "the of 42 with", "", false},
		{"空输入", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractNoun(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, isNumeric("2025"))
	assert.False(t, isNumeric("v2"))
	assert.False(t, isNumeric(""))
	assert.True(t, isNumeric("²"))
	assert.True(t, isNumeric("３０"))
}
