package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"-1.5", -150, true},
		{"-0.005", -1, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1,000.50", 0, false},
		{"1e3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
		{"1000000000000", 100000000000000, true},
		{"-1000000000000", -100000000000000, true},
		{"1000000000000.01", 0, false},
		{"92233720368547758", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestParseLimit(t *testing.T) {
	if m, err := ParseLimit("200"); err != nil || m.Cents != 20000 {
		t.Fatalf("expected 20000, got %d (err=%v)", m.Cents, err)
	}
	if m, err := ParseLimit("0"); err != nil || m.Cents != 0 {
		t.Fatalf("zero limit should be allowed, got %d (err=%v)", m.Cents, err)
	}
	for _, in := range []string{"-1", "x", ""} {
		if _, err := ParseLimit(in); !errors.Is(err, ErrInvalidLimit) {
			t.Fatalf("%q expected ErrInvalidLimit, got %v", in, err)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:     "0.00",
		5:     "0.05",
		1234:  "12.34",
		-250:  "-2.50",
		20000: "200.00",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}
