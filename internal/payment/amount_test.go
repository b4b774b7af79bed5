package payment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		valid bool
	}{
		{"below minimum", "50", false},
		{"at minimum", "100", true},
		{"typical", "1000", true},
		{"at maximum", "5000000", true},
		{"above maximum", "6000000", false},
		{"zero", "0", false},
		{"negative", "-20", false},
		{"not a number", "twelve", false},
		{"empty", "", false},
		{"decimal", "2500.50", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAmount(tc.in)
			if tc.valid && err != nil {
				t.Fatalf("ParseAmount(%q) = %v, want valid", tc.in, err)
			}
			if !tc.valid {
				if err == nil {
					t.Fatalf("ParseAmount(%q) accepted, want invalid", tc.in)
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("error %v is not ErrInvalidAmount", err)
				}
			}
		})
	}
}

func TestSubunits(t *testing.T) {
	d, err := ParseAmount("2500.50")
	if err != nil {
		t.Fatal(err)
	}
	if got := Subunits(d); got != 250050 {
		t.Fatalf("Subunits = %d, want 250050", got)
	}
	if got := Subunits(decimal.NewFromInt(100)); got != 10000 {
		t.Fatalf("Subunits = %d, want 10000", got)
	}
}
