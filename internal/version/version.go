// Package version 项目版本信息与兼容性检查
//
// 变更记录：
//   - 0.2.0: 增加版本分量与变更记录
//   - 0.1.0: 初始版本
package version

import (
	"regexp"
	"strconv"
)

// 当前版本，进程内只读
const (
	Major = 0
	Minor = 2
	Patch = 0

	Version = "0.2.0"
)

var semverPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Get 返回当前版本字符串
func Get() string {
	return Version
}

// Tuple 返回 (major, minor, patch)
func Tuple() (int, int, int) {
	return Major, Minor, Patch
}

// IsCompatible 检查给定版本是否与当前版本兼容
// 主版本号相同即视为兼容；格式非法一律返回false
func IsCompatible(other string) bool {
	m := semverPattern.FindStringSubmatch(other)
	if m == nil {
		return false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	return major == Major
}
