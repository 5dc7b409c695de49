package l1coords

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestDistances(t *testing.T) {
	a := NewPoint(1, -2, 3)
	b := NewPoint(4, 2, 3)

	if got := DistanceX(a, b); got != 3 {
		t.Errorf("DistanceX = %v, want 3", got)
	}
	if got := DistanceY(a, b); got != 4 {
		t.Errorf("DistanceY = %v, want 4", got)
	}
	if got := DistanceZ(a, b); got != 0 {
		t.Errorf("DistanceZ = %v, want 0", got)
	}
	if got := Distance(a, b); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := Distance(b, a); got != 5 {
		t.Errorf("Distance should be symmetric, got %v", got)
	}
}

func TestPointArithmetic(t *testing.T) {
	a := NewPoint(1, 2, 3)
	b := NewPoint(-1, 0.5, 10)

	if got, want := a.Add(b), NewPoint(0, 2.5, 13); got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
	if got, want := a.Sub(b), NewPoint(2, 1.5, -7); got != want {
		t.Errorf("Sub = %v, want %v", got, want)
	}
	if got, want := Min(a, b), NewPoint(-1, 0.5, 3); got != want {
		t.Errorf("Min = %v, want %v", got, want)
	}
	if got, want := Max(a, b), NewPoint(1, 2, 10); got != want {
		t.Errorf("Max = %v, want %v", got, want)
	}
}

func TestPointIsFinite(t *testing.T) {
	tests := []struct {
		p    Point
		want bool
	}{
		{NewPoint(0, 0, 0), true},
		{NewPoint(-1e300, 1e300, 0), true},
		{NewPoint(math.NaN(), 0, 0), false},
		{NewPoint(0, math.Inf(1), 0), false},
		{NewPoint(0, 0, math.Inf(-1)), false},
	}
	for _, tc := range tests {
		if got := tc.p.IsFinite(); got != tc.want {
			t.Errorf("%v.IsFinite() = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestAxisResolutionValidate(t *testing.T) {
	if err := Uniform(2).Validate(); err != nil {
		t.Fatalf("Uniform(2) should be valid: %v", err)
	}
	bad := []AxisResolution{
		Uniform(0),
		{X: 1, Y: -1, Z: 1},
		{X: math.NaN(), Y: 1, Z: 1},
		{X: 1, Y: 1, Z: math.Inf(1)},
	}
	for _, r := range bad {
		if err := r.Validate(); err == nil {
			t.Errorf("expected %+v to be rejected", r)
		}
	}
}

func TestIntoInternal(t *testing.T) {
	l := FromXYZ(3, -1, 7)
	in := l.IntoInternal(NewPoint(1, -2, 4), AxisResolution{X: 2, Y: 3, Z: 5})

	// z is shifted but never scaled
	if got, want := in.Point(), NewPoint(4, 3, 3); got != want {
		t.Fatalf("internal point = %v, want %v", got, want)
	}
	if in.Offset() != NewPoint(1, -2, 4) {
		t.Errorf("offset not retained: %v", in.Offset())
	}
	if in.Resolution() != (AxisResolution{X: 2, Y: 3, Z: 5}) {
		t.Errorf("resolution not retained: %v", in.Resolution())
	}
}

var roundTripCases = []struct {
	name   string
	p      Point
	offset Point
	res    AxisResolution
}{
	{"origin", NewPoint(0, 0, 0), NewPoint(0, 0, 0), Uniform(1)},
	{"negative point", NewPoint(-3, -7.5, -1), NewPoint(-10, -10, -2), Uniform(2)},
	{"negative offset above point", NewPoint(-12, 4, 0), NewPoint(-1, 8, 0), Uniform(4)},
	{"fractional resolution", NewPoint(5.25, -2.5, 3), NewPoint(1, 1, 1), Uniform(0.5)},
	{"per-axis resolution", NewPoint(14, 95, 0), NewPoint(-126, -7165, 0), AxisResolution{X: 3, Y: 8, Z: 1}},
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range roundTripCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewRealWorldLocation(tc.p)
			back := l.IntoInternal(tc.offset, tc.res).IntoRealWorld()
			if back != l {
				t.Fatalf("round trip = %v, want %v", back.Point, tc.p)
			}
		})
	}
}

func TestChangeOffset(t *testing.T) {
	offsets := []Point{
		NewPoint(-5, -5, 0),
		NewPoint(10, 2, -3),
		NewPoint(0.5, -0.25, 0),
		NewPoint(-1024, 512, 8),
	}
	for _, tc := range roundTripCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewRealWorldLocation(tc.p)
			in := l.IntoInternal(tc.offset, tc.res)
			for i, o := range offsets {
				in = in.ChangeOffset(o)
				if in.Offset() != o {
					t.Fatalf("step %d: offset = %v, want %v", i, in.Offset(), o)
				}
				if in.Resolution() != tc.res {
					t.Fatalf("step %d: resolution changed to %v", i, in.Resolution())
				}
				if got := in.IntoRealWorld(); got != l {
					t.Fatalf("step %d: real-world = %v, want %v", i, got.Point, tc.p)
				}
			}
		})
	}
}

func TestChangeOffsetMatchesDirectConversion(t *testing.T) {
	l := FromXYZ(6, -4, 0)
	res := Uniform(2)
	viaChange := l.IntoInternal(NewPoint(0, 0, 0), res).ChangeOffset(NewPoint(-2, -8, 0))
	direct := l.IntoInternal(NewPoint(-2, -8, 0), res)
	if viaChange != direct {
		t.Fatalf("ChangeOffset = %+v, direct = %+v", viaChange, direct)
	}
	if got, want := direct.Point(), NewPoint(16, 8, 0); got != want {
		t.Fatalf("internal = %v, want %v", got, want)
	}
}

func randomPoint(rng *rand.Rand) Point {
	return NewPoint(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20-10)
}

func TestRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	resolutions := []AxisResolution{Uniform(1), Uniform(3), Uniform(0.1), {X: 7.3, Y: 0.37, Z: 1}}
	for i := 0; i < 10000; i++ {
		l := NewRealWorldLocation(randomPoint(rng))
		o := randomPoint(rng)
		res := resolutions[i%len(resolutions)]
		if back := l.IntoInternal(o, res).IntoRealWorld(); back != l {
			t.Fatalf("case %d: round trip of %v via offset %v at %+v = %v", i, l.Point, o, res, back.Point)
		}
	}
}

func TestChangeOffset_Random(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 2000; i++ {
		l := NewRealWorldLocation(randomPoint(rng))
		res := Uniform(rng.Float64()*10 + 0.01)
		in := l.IntoInternal(randomPoint(rng), res)
		for step := 0; step < 5; step++ {
			o := randomPoint(rng)
			in = in.ChangeOffset(o)
			if in != l.IntoInternal(o, res) {
				t.Fatalf("case %d step %d: re-anchored %+v differs from direct conversion", i, step, in)
			}
			if got := in.IntoRealWorld(); got != l {
				t.Fatalf("case %d step %d: real-world = %v, want %v", i, step, got.Point, l.Point)
			}
		}
	}
}

func TestChangeOffset_DecimalChain(t *testing.T) {
	l := FromXYZ(0.1, 0.7, 0)
	got := l.IntoInternal(NewPoint(0, 0, 0), Uniform(1)).
		ChangeOffset(NewPoint(0.3, 0.2, 0)).
		ChangeOffset(NewPoint(-0.7, 1.1, 0)).
		IntoRealWorld()
	if got != l {
		t.Fatalf("real-world = %.20g, %.20g; want 0.1, 0.7", got.X, got.Y)
	}
}

func TestNewInternalLocation_Arithmetic(t *testing.T) {
	// cell (col 3, row 1) of a grid at offset (-2, 4) with 2 cells per meter
	in := NewInternalLocation(NewPoint(3, 1, 0), NewPoint(-2, 4, 1), Uniform(2))
	if got, want := in.IntoRealWorld(), FromXYZ(-0.5, 4.5, 1); got != want {
		t.Fatalf("IntoRealWorld() = %v, want %v", got.Point, want.Point)
	}
}
