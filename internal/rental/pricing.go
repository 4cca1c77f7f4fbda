package rental

import (
	"fmt"
	"strings"
	"time"
)

// 租期日期支持两种格式：前端传的 ISO 时间戳和纯日期。
const (
	timeRangeLayout = "2006-01-02T15:04:05.000Z"
	dateOnlyLayout  = "2006-01-02"
)

// Cost 计算一段租期的总价（分）。
// 天数按两个时间点之间的整自然天计算（不足一天的部分截断），
// 总价 = 天数 × 日租金，全程按分运算。
// endDate 早于 startDate 时返回 ErrValidation，不允许负数天。
func Cost(dailyPriceCents int64, startDate, endDate string) (int64, error) {
	if dailyPriceCents < 0 {
		return 0, fmt.Errorf("%w: daily price is negative", ErrValidation)
	}

	start, err := parseRangeDate(startDate)
	if err != nil {
		return 0, fmt.Errorf("%w: start date: %v", ErrValidation, err)
	}
	end, err := parseRangeDate(endDate)
	if err != nil {
		return 0, fmt.Errorf("%w: end date: %v", ErrValidation, err)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("%w: end date %s before start date %s", ErrValidation, endDate, startDate)
	}

	days := int64(end.Sub(start) / (24 * time.Hour))
	return days * dailyPriceCents, nil
}

func parseRangeDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if t, err := time.Parse(timeRangeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %q", s)
	}
	return t, nil
}
