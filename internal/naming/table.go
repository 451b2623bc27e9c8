// Package naming 表名规范化工具
package naming

import (
	"regexp"
	"strings"
)

var (
	edgePunctuation = regexp.MustCompile(`^[^\p{L}\p{N}_]+|[^\p{L}\p{N}_]+$`)
	innerWhitespace = regexp.MustCompile(`[\s\v\p{Z}]+`)
)

// NormalizeTableName 返回安全的小写表名
//
// 规则：
//   - 空输入返回空字符串
//   - 去掉首尾空白及首尾的非单词字符
//   - 内部连续空白折叠为单个下划线
//   - 转为小写
//
// 例如 "monthly sales" -> "monthly_sales"，"#Sales2025!" -> "sales2025"
func NormalizeTableName(name string) string {
	if name == "" {
		return ""
	}

	cleaned := edgePunctuation.ReplaceAllString(strings.TrimSpace(name), "")
	cleaned = innerWhitespace.ReplaceAllString(cleaned, "_")

	return strings.ToLower(cleaned)
}
