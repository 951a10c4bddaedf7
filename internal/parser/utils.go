package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名，去除空白字符（含换行、制表符与不间断空格）
func NormalizeColumnName(name string) string {
	name = strings.ReplaceAll(name, "\u00a0", " ")
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(name), "")
}

// ParseNumber 严格解析数字；空串、非数字、NaN/Inf 均返回 false
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
