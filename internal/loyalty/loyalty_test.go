package loyalty

import "testing"

func TestPointsForCharge(t *testing.T) {
	cases := []struct {
		total int64
		want  int64
	}{
		{0, 0},
		{9_999, 0},
		{10_000, 1},
		{2_200_000, 220},
		{1_100_000, 110},
		{-5, 0},
	}
	for _, c := range cases {
		if got := PointsForCharge(c.total); got != c.want {
			t.Fatalf("PointsForCharge(%d) = %d, want %d", c.total, got, c.want)
		}
	}
}

func TestPointsForCharge_Deterministic(t *testing.T) {
	if PointsForCharge(2_200_000) != PointsForCharge(2_200_000) {
		t.Fatal("accrual must be a pure function of the charge total")
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		points int64
		want   string
	}{
		{0, "Bronze"},
		{499, "Bronze"},
		{500, "Silver"},
		{1999, "Silver"},
		{2000, "Gold"},
		{999_999, "Gold"},
	}
	for _, c := range cases {
		if got := TierFor(c.points); got.Name != c.want {
			t.Fatalf("TierFor(%d) = %s, want %s", c.points, got.Name, c.want)
		}
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	prev := int64(-1)
	for points := int64(0); points <= 3000; points += 7 {
		got := TierFor(points).RequiredPoints
		if got < prev {
			t.Fatalf("tier threshold dropped from %d to %d at %d points", prev, got, points)
		}
		prev = got
	}
}

func TestNextTier(t *testing.T) {
	next, ok := NextTier(0)
	if !ok || next.Name != "Silver" {
		t.Fatalf("expected Silver next from 0 points, got %v %v", next, ok)
	}
	next, ok = NextTier(600)
	if !ok || next.Name != "Gold" {
		t.Fatalf("expected Gold next from 600 points, got %v %v", next, ok)
	}
	if _, ok := NextTier(2000); ok {
		t.Fatal("expected no tier beyond Gold")
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		points int64
		want   int
	}{
		{0, 0},
		{250, 50},
		{499, 99},
		{500, 0},
		{1250, 50},
		{2000, 100},
		{10_000, 100},
	}
	for _, c := range cases {
		if got := Progress(c.points); got != c.want {
			t.Fatalf("Progress(%d) = %d, want %d", c.points, got, c.want)
		}
	}
}
