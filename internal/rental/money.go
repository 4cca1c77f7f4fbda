package rental

import (
	"fmt"
	"strconv"
	"strings"
)

// 金额统一用 int64 分（cents）表示，避免浮点误差。
// 对外展示和入参解析都走下面两个函数。

// ParseCents 把 "50"、"50.5"、"50.00" 这类十进制金额字符串解析为分。
// 超过两位小数时按第三位四舍五入（round half-up）。负数金额直接拒绝。
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("amount is negative: %s", s)
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	cents := whole * 100
	if fracPart != "" {
		for _, c := range fracPart {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("invalid amount %q", s)
			}
		}
		frac := fracPart
		roundUp := false
		if len(frac) > 2 {
			roundUp = frac[2] >= '5'
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, _ := strconv.ParseInt(frac, 10, 64)
		cents += f
		if roundUp {
			cents++
		}
	}
	return cents, nil
}

// FormatCents 把分格式化为两位小数的十进制金额字符串，例如 15000 -> "150.00"。
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
