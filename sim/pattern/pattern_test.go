package pattern

import (
	"errors"
	"math/rand"
	"testing"
)

func TestParseKind_RoundTripsAllKinds(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k, err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %q, want %q", k, got, k)
		}
	}
}

func TestParseKind_UnknownString_Errors(t *testing.T) {
	_, err := ParseKind("zigzag")
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseKind(\"zigzag\") error = %v, want ErrInvalidParameter", err)
	}
}

func TestSampleParams_PreservesBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, k := range Kinds() {
		p, err := SampleParams(k, rng, 100000, 16)
		if err != nil {
			t.Fatalf("SampleParams(%q): %v", k, err)
		}
		if p.Kind() != k {
			t.Errorf("params kind = %q, want %q", p.Kind(), k)
		}
		maxAddr, length := p.Bounds()
		if maxAddr != 100000 || length != 16 {
			t.Errorf("%s bounds = (%d, %d), want (100000, 16)", k, maxAddr, length)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("%s sampled params do not validate: %v", k, err)
		}
	}
}

func TestSampleParams_RejectsInvalidBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cases := []struct {
		name       string
		maxAddress int64
		length     int
	}{
		{"zero max address", 0, 16},
		{"negative max address", -100, 16},
		{"zero length", 1000, 0},
		{"negative length", 1000, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SampleParams(KindRandom, rng, tc.maxAddress, tc.length)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestSampleParams_UnknownKind_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	_, err := SampleParams(Kind("spiral"), rng, 1000, 16)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestNewSequence_EveryKind_EmitsExactlyLengthAddresses(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, k := range Kinds() {
		p, err := SampleParams(k, rng, 100000, 64)
		if err != nil {
			t.Fatal(err)
		}
		seq, err := NewSequence(p, rng)
		if err != nil {
			t.Fatal(err)
		}
		addrs := seq.Drain()
		if len(addrs) != 64 {
			t.Errorf("%s: emitted %d addresses, want 64", k, len(addrs))
		}
		for i, a := range addrs {
			if a < 0 || a > 100000 {
				t.Errorf("%s: address[%d] = %d outside [0, 100000]", k, i, a)
				break
			}
		}
	}
}

func TestNewSequence_InvalidParams_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	_, err := NewSequence(RandomParams{MaxAddress: 0, Length: 10}, rng)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestSequence_NextAfterExhaustion_ReportsDone(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seq, err := NewSequence(RandomParams{MaxAddress: 100, Length: 3}, rng)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, ok := seq.Next(); !ok {
			t.Fatalf("Next() done after %d addresses, want 3", i)
		}
	}
	if _, ok := seq.Next(); ok {
		t.Error("Next() still producing after the declared length")
	}
	if seq.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", seq.Remaining())
	}
}

func TestSequence_DrainAfterPartialConsumption_ReturnsRemainder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seq, err := NewSequence(RandomParams{MaxAddress: 100, Length: 10}, rng)
	if err != nil {
		t.Fatal(err)
	}
	seq.Next()
	seq.Next()
	if seq.Remaining() != 8 {
		t.Fatalf("Remaining() = %d, want 8", seq.Remaining())
	}
	rest := seq.Drain()
	if len(rest) != 8 {
		t.Errorf("Drain() returned %d addresses, want 8", len(rest))
	}
}

func TestNewSequence_SameSeed_ReproducesTrace(t *testing.T) {
	for _, k := range Kinds() {
		gen := func() []int64 {
			rng := rand.New(rand.NewSource(7))
			p, err := SampleParams(k, rng, 100000, 32)
			if err != nil {
				t.Fatal(err)
			}
			seq, err := NewSequence(p, rng)
			if err != nil {
				t.Fatal(err)
			}
			return seq.Drain()
		}
		first, second := gen(), gen()
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("%s: trace diverges at %d: %d vs %d", k, i, first[i], second[i])
				break
			}
		}
	}
}
