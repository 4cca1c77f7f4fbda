package vehicle

import (
	"context"
	"fmt"
	"testing"
)

// fakeSource 固定返回一组车辆，模拟存储层。
type fakeSource struct {
	vehicles []Vehicle
	err      error
}

func (s *fakeSource) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vehicles, nil
}

func testFleet() []Vehicle {
	return []Vehicle{
		{ID: "a", Make: "Toyota", Model: "Camry", Year: 2022, Color: "Blue", Capacity: 5, DailyPriceCents: 5000, Type: "Sedan", Available: true},
		{ID: "b", Make: "Honda", Model: "Odyssey", Year: 2021, Color: "White", Capacity: 7, DailyPriceCents: 8000, Type: "Van", Available: true},
		{ID: "c", Make: "Toyota", Model: "Corolla", Year: 2023, Color: "Red", Capacity: 5, DailyPriceCents: 4000, Type: "Sedan", Available: false, CurrentRenterID: "u1"},
	}
}

func TestInventoryReloadAndGet(t *testing.T) {
	inv := NewInventory(&fakeSource{vehicles: testFleet()})
	if err := inv.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	v, ok := inv.Get("b")
	if !ok || v.Make != "Honda" {
		t.Fatalf("expected to find vehicle b, got %+v ok=%v", v, ok)
	}
	if _, ok := inv.Get("zzz"); ok {
		t.Fatalf("unexpected hit for unknown id")
	}

	all := inv.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 vehicles, got %d", len(all))
	}
	// All 按 id 排序。
	if all[0].ID != "a" || all[1].ID != "b" || all[2].ID != "c" {
		t.Fatalf("unexpected order: %v %v %v", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestInventoryReloadPropagatesError(t *testing.T) {
	inv := NewInventory(&fakeSource{err: fmt.Errorf("connection refused")})
	if err := inv.Reload(context.Background()); err == nil {
		t.Fatalf("expected reload error")
	}
}

func TestInventoryFilterHidesRented(t *testing.T) {
	inv := NewInventory(&fakeSource{vehicles: testFleet()})
	if err := inv.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	// c 满足条件但已租出，不能出现在结果里。
	got := inv.Filter(Filter{Make: "Toyota"})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only vehicle a, got %+v", got)
	}

	minCap := 4
	got = inv.Filter(Filter{MinCapacity: &minCap})
	if len(got) != 2 {
		t.Fatalf("expected 2 available vehicles with capacity >= 4, got %d", len(got))
	}
}

func TestInventoryFacets(t *testing.T) {
	inv := NewInventory(&fakeSource{vehicles: testFleet()})
	if err := inv.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	wantMakes := []string{"Honda", "Toyota"}
	gotMakes := inv.Makes()
	if len(gotMakes) != len(wantMakes) || gotMakes[0] != wantMakes[0] || gotMakes[1] != wantMakes[1] {
		t.Fatalf("expected makes %v, got %v", wantMakes, gotMakes)
	}
	if got := inv.Types(); len(got) != 2 || got[0] != "Sedan" || got[1] != "Van" {
		t.Fatalf("unexpected types %v", got)
	}
	if got := inv.Models(); len(got) != 3 {
		t.Fatalf("expected 3 models, got %v", got)
	}
	if got := inv.Colors(); len(got) != 3 {
		t.Fatalf("expected 3 colors, got %v", got)
	}
}

func TestInventoryApplyAndRemove(t *testing.T) {
	inv := NewInventory(&fakeSource{vehicles: testFleet()})
	if err := inv.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	// 写穿透：单辆车状态更新立即可见。
	v, _ := inv.Get("a")
	v.Available = false
	v.CurrentRenterID = "u2"
	inv.Apply(v)
	got, _ := inv.Get("a")
	if got.Available || got.CurrentRenterID != "u2" {
		t.Fatalf("apply not visible: %+v", got)
	}
	if rentable := inv.Filter(Filter{}); len(rentable) != 1 {
		t.Fatalf("expected 1 rentable vehicle after apply, got %d", len(rentable))
	}

	inv.Remove("b")
	if _, ok := inv.Get("b"); ok {
		t.Fatalf("expected b removed")
	}

	// Apply/Remove 不重算维度集合，Reload 才重算。
	if got := inv.Makes(); len(got) != 2 {
		t.Fatalf("facets must be stable until reload, got %v", got)
	}
}
