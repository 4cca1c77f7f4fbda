package rental

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusAvailable, StatusRented, true},
		{StatusRented, StatusAvailable, true},
		{StatusAvailable, StatusAvailable, false},
		{StatusRented, StatusRented, false},
		{Status("scrapped"), StatusRented, false},
		{StatusAvailable, Status("scrapped"), false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestStatusOf(t *testing.T) {
	if statusOf(true) != StatusAvailable {
		t.Fatalf("statusOf(true) = %s", statusOf(true))
	}
	if statusOf(false) != StatusRented {
		t.Fatalf("statusOf(false) = %s", statusOf(false))
	}
}
