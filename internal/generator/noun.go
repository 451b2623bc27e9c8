package generator

import (
	"regexp"
	"strings"
	"unicode"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// stopWords 提取名词时跳过的虚词
var stopWords = map[string]struct{}{
	"who": {}, "that": {}, "which": {}, "for": {}, "in": {}, "on": {},
	"the": {}, "a": {}, "an": {}, "of": {}, "with": {}, "made": {},
	"have": {}, "has": {}, "last": {}, "this": {},
}

// ExtractNoun 从句尾向前找第一个非虚词、非数字的词并复数化
func ExtractNoun(text string) (string, bool) {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		if _, skip := stopWords[t]; skip || isNumeric(t) {
			continue
		}
		if strings.HasSuffix(t, "s") {
			return t, true
		}
		return t + "s", true
	}
	return "", false
}

// isNumeric 全部为数字字符，包括上标等非十进制数字
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
