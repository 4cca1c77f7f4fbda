package vehicle

import "testing"

func sampleVehicle() Vehicle {
	return Vehicle{
		ID:              "v1",
		Make:            "Toyota",
		Model:           "Camry",
		Year:            2022,
		Color:           "Blue",
		Capacity:        5,
		DailyPriceCents: 5000,
		Type:            "Sedan",
		Available:       true,
	}
}

func TestFilterEmptyMatchesEverything(t *testing.T) {
	if !(Filter{}).Matches(sampleVehicle()) {
		t.Fatalf("empty filter must match")
	}
}

func TestFilterAnySentinel(t *testing.T) {
	// "Any"（任意大小写）等价于未设置。
	for _, s := range []string{"any", "Any", "ANY", "  any  "} {
		f := Filter{Make: s, Model: s, Color: s, Type: s}
		if !f.Matches(sampleVehicle()) {
			t.Fatalf("sentinel %q must match everything", s)
		}
	}
}

func TestFilterTextCaseInsensitive(t *testing.T) {
	f := Filter{Make: "toyota", Model: "CAMRY", Color: "blue", Type: "sedan"}
	if !f.Matches(sampleVehicle()) {
		t.Fatalf("text match must be case-insensitive")
	}
	if (Filter{Make: "Honda"}).Matches(sampleVehicle()) {
		t.Fatalf("wrong make must not match")
	}
}

func TestFilterNumericConditions(t *testing.T) {
	v := sampleVehicle()

	year := 2022
	if !(Filter{Year: &year}).Matches(v) {
		t.Fatalf("matching year rejected")
	}
	wrongYear := 2021
	if (Filter{Year: &wrongYear}).Matches(v) {
		t.Fatalf("wrong year accepted")
	}

	minCap := 4
	if !(Filter{MinCapacity: &minCap}).Matches(v) {
		t.Fatalf("capacity 5 must satisfy minCapacity 4")
	}
	minCap = 6
	if (Filter{MinCapacity: &minCap}).Matches(v) {
		t.Fatalf("capacity 5 must not satisfy minCapacity 6")
	}

	maxPrice := int64(5000)
	if !(Filter{MaxPriceCents: &maxPrice}).Matches(v) {
		t.Fatalf("price at the cap must match")
	}
	maxPrice = 4999
	if (Filter{MaxPriceCents: &maxPrice}).Matches(v) {
		t.Fatalf("price above the cap must not match")
	}
}

func TestFilterConditionsAreAnded(t *testing.T) {
	minCap := 4
	f := Filter{Make: "Toyota", MinCapacity: &minCap}
	if !f.Matches(sampleVehicle()) {
		t.Fatalf("both conditions hold, must match")
	}
	f.Make = "Honda"
	if f.Matches(sampleVehicle()) {
		t.Fatalf("one failing condition must reject")
	}
}
