package vehicle

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Source 是 Inventory 重建自身所需的最小存储能力。
type Source interface {
	ListVehicles(ctx context.Context) ([]Vehicle, error)
}

// Inventory 是车辆表的进程内投影：id -> Vehicle 的映射，
// 外加用于筛选下拉框的维度集合（品牌/型号/颜色/类型）。
// 它不是事实来源——事实在存储层，这里只是可整体重建的缓存。
// 维度集合只在 Reload 时重算；单辆车的写穿透更新走 Apply / Remove。
type Inventory struct {
	source Source

	mu       sync.RWMutex
	vehicles map[string]Vehicle
	makes    map[string]struct{}
	models   map[string]struct{}
	colors   map[string]struct{}
	types    map[string]struct{}
}

func NewInventory(source Source) *Inventory {
	return &Inventory{
		source:   source,
		vehicles: make(map[string]Vehicle),
		makes:    make(map[string]struct{}),
		models:   make(map[string]struct{}),
		colors:   make(map[string]struct{}),
		types:    make(map[string]struct{}),
	}
}

// Reload 从存储层整体重建投影和全部维度集合。
func (inv *Inventory) Reload(ctx context.Context) error {
	if inv == nil || inv.source == nil {
		return fmt.Errorf("inventory source is nil")
	}
	vs, err := inv.source.ListVehicles(ctx)
	if err != nil {
		return fmt.Errorf("reload vehicles: %w", err)
	}

	vehicles := make(map[string]Vehicle, len(vs))
	makes := make(map[string]struct{})
	models := make(map[string]struct{})
	colors := make(map[string]struct{})
	types := make(map[string]struct{})
	for _, v := range vs {
		vehicles[v.ID] = v
		makes[v.Make] = struct{}{}
		models[v.Model] = struct{}{}
		colors[v.Color] = struct{}{}
		types[v.Type] = struct{}{}
	}

	inv.mu.Lock()
	inv.vehicles = vehicles
	inv.makes = makes
	inv.models = models
	inv.colors = colors
	inv.types = types
	inv.mu.Unlock()
	return nil
}

// Get 按 id 查一辆车。第二个返回值表示是否命中。
func (inv *Inventory) Get(id string) (Vehicle, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	v, ok := inv.vehicles[id]
	return v, ok
}

// All 返回投影里的全部车辆（按 id 排序，保证输出稳定）。
func (inv *Inventory) All() []Vehicle {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]Vehicle, 0, len(inv.vehicles))
	for _, v := range inv.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Filter 返回满足条件且当前可租的车辆。面向租客的筛选永远不暴露已租出的车。
func (inv *Inventory) Filter(f Filter) []Vehicle {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]Vehicle, 0)
	for _, v := range inv.vehicles {
		if !v.Available {
			continue
		}
		if f.Matches(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Apply 在存储层写入成功之后，把单辆车的最新状态同步进投影。
// 不重算维度集合（见 Reload）。
func (inv *Inventory) Apply(v Vehicle) {
	inv.mu.Lock()
	inv.vehicles[v.ID] = v
	inv.mu.Unlock()
}

// Remove 把一辆车从投影里移除（删除车辆之后调用）。
func (inv *Inventory) Remove(id string) {
	inv.mu.Lock()
	delete(inv.vehicles, id)
	inv.mu.Unlock()
}

// Makes 返回系统中出现过的全部品牌。
func (inv *Inventory) Makes() []string { return inv.facet(func() map[string]struct{} { return inv.makes }) }

// Models 返回系统中出现过的全部型号。
func (inv *Inventory) Models() []string {
	return inv.facet(func() map[string]struct{} { return inv.models })
}

// Colors 返回系统中出现过的全部颜色。
func (inv *Inventory) Colors() []string {
	return inv.facet(func() map[string]struct{} { return inv.colors })
}

// Types 返回系统中出现过的全部车辆类型。
func (inv *Inventory) Types() []string { return inv.facet(func() map[string]struct{} { return inv.types }) }

func (inv *Inventory) facet(pick func() map[string]struct{}) []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	set := pick()
	out := make([]string, 0, len(set))
	for s := range set {
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
