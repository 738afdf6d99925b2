package tick

import "testing"

func TestSideOpposite(t *testing.T) {
	if Bid.Opposite() != Ask {
		t.Errorf("Bid.Opposite() = %v, want Ask", Bid.Opposite())
	}
	if Ask.Opposite() != Bid {
		t.Errorf("Ask.Opposite() = %v, want Bid", Ask.Opposite())
	}
}

func TestPriceTickBetter(t *testing.T) {
	cases := []struct {
		side  Side
		p     PriceTick
		other PriceTick
		want  bool
	}{
		{Bid, 100, 99, true},
		{Bid, 99, 100, false},
		{Bid, 100, 100, false},
		{Ask, 99, 100, true},
		{Ask, 100, 99, false},
		{Ask, 100, 100, false},
	}
	for _, c := range cases {
		if got := c.p.Better(c.side, c.other); got != c.want {
			t.Errorf("%v(%d).Better(%d) = %v, want %v", c.side, c.p, c.other, got, c.want)
		}
	}
}

func TestPriceTickCrosses(t *testing.T) {
	cases := []struct {
		side   Side
		limit  PriceTick
		resting PriceTick
		want   bool
	}{
		{Bid, 100, 100, true},  // bid at 100 crosses ask resting at 100
		{Bid, 100, 101, false}, // bid at 100 does not cross ask resting at 101
		{Bid, 100, 99, true},   // bid at 100 crosses ask resting at 99
		{Ask, 100, 100, true},  // ask at 100 crosses bid resting at 100
		{Ask, 100, 99, false},  // ask at 100 does not cross bid resting at 99
		{Ask, 100, 101, true},  // ask at 100 crosses bid resting at 101
	}
	for _, c := range cases {
		if got := c.limit.Crosses(c.side, c.resting); got != c.want {
			t.Errorf("%v limit=%d resting=%d: got %v, want %v", c.side, c.limit, c.resting, got, c.want)
		}
	}
}
