package vehicle

import "strings"

// anySentinel 是前端下拉框的“不限”选项，等价于未指定该条件。
const anySentinel = "any"

// Filter 车辆筛选条件。未设置的条件匹配所有车辆，
// 设置了的条件之间按 AND 组合。字符串条件大小写不敏感，
// 且 "Any"（不区分大小写）与未设置等价。
type Filter struct {
	Make          string
	Model         string
	Year          *int
	Color         string
	MinCapacity   *int
	MaxPriceCents *int64
	Type          string
}

// Matches 判断一辆车是否满足全部已设置的条件。
// 注意：可用性（只返回未租出的车）由 Inventory.Filter 负责，这里只比对属性。
func (f Filter) Matches(v Vehicle) bool {
	if !matchText(f.Make, v.Make) {
		return false
	}
	if !matchText(f.Model, v.Model) {
		return false
	}
	if f.Year != nil && v.Year != *f.Year {
		return false
	}
	if !matchText(f.Color, v.Color) {
		return false
	}
	if f.MinCapacity != nil && v.Capacity < *f.MinCapacity {
		return false
	}
	if f.MaxPriceCents != nil && v.DailyPriceCents > *f.MaxPriceCents {
		return false
	}
	if !matchText(f.Type, v.Type) {
		return false
	}
	return true
}

func matchText(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, anySentinel) {
		return true
	}
	return strings.EqualFold(want, got)
}
