// Package generator 基于规则的自然语言转SQL生成器
// 不依赖任何外部模型，按固定模式表匹配用户输入
package generator

import (
	"fmt"
	"regexp"
	"strings"
)

// 兜底分支的结果来源
const (
	SourceRule          = "rule"
	SourceFallbackCount = "fallback_count"
	SourceFallbackName  = "fallback_name"
	SourceUnmatched     = "unmatched"
	SourceEmpty         = "empty"
	SourceError         = "error"
)

// UnmatchedSQL 无法识别输入时的提示
const UnmatchedSQL = "-- Sorry, I couldn't confidently generate SQL for that input."

var (
	countPattern = regexp.MustCompile(`(?i)count`)
	namePattern  = regexp.MustCompile(`(?i)name|names`)
)

// Match 一次生成的详细结果
type Match struct {
	SQL    string `json:"sql"`
	Source string `json:"source"`
	Rule   string `json:"rule,omitempty"`
}

// Generate 将自然语言转换为SQL，空输入返回空字符串
func Generate(text string) string {
	return Explain(text).SQL
}

// Explain 与Generate相同，同时返回命中的规则或兜底分支
func Explain(text string) Match {
	text = strings.TrimSpace(text)
	if text == "" {
		return Match{Source: SourceEmpty}
	}

	for _, rule := range rules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		sql, err := apply(rule, m)
		if err != nil {
			return Match{
				SQL:    fmt.Sprintf("-- Error generating SQL: %v", err),
				Source: SourceError,
				Rule:   rule.Name,
			}
		}
		return Match{SQL: sql, Source: SourceRule, Rule: rule.Name}
	}

	return fallback(text)
}

// apply 执行规则处理函数，panic也转换为错误
func apply(rule Rule, m []string) (sql string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return rule.Handler(namedGroups(rule.Pattern, m))
}

func fallback(text string) Match {
	if countPattern.MatchString(text) {
		noun, ok := ExtractNoun(text)
		if !ok {
			noun = "items"
		}
		return Match{SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s;", noun), Source: SourceFallbackCount}
	}
	if namePattern.MatchString(text) {
		noun, ok := ExtractNoun(text)
		if !ok {
			noun = "table"
		}
		return Match{SQL: fmt.Sprintf("SELECT name FROM %s;", noun), Source: SourceFallbackName}
	}
	return Match{SQL: UnmatchedSQL, Source: SourceUnmatched}
}
