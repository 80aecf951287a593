package currency

import "testing"

func newTestConverter() *Converter {
	return NewConverter("INR", map[string]float64{
		"USD": 85,
		"EUR": 90,
		"INR": 1,
	})
}

func TestConvertToReference(t *testing.T) {
	c := newTestConverter()

	tests := []struct {
		name   string
		amount float64
		from   string
		want   float64
	}{
		{"EUR to INR", 450, "EUR", 40500},
		{"USD to INR", 120, "USD", 10200},
		{"identity INR", 1234.56, "INR", 1234.56},
		{"fractional EUR", 10.555, "EUR", 949.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Convert(tt.amount, tt.from, "INR")
			if got != tt.want {
				t.Errorf("Convert(%v, %s, INR) = %v, want %v", tt.amount, tt.from, got, tt.want)
			}
		})
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	c := newTestConverter()

	first := c.Convert(450, "EUR", "INR")
	for i := 0; i < 100; i++ {
		if got := c.Convert(450, "EUR", "INR"); got != first {
			t.Fatalf("Conversion not deterministic: %v then %v", first, got)
		}
	}
}

func TestConvertHalfUpRounding(t *testing.T) {
	c := NewConverter("INR", map[string]float64{"USD": 3, "INR": 1})

	// 0.125 * 3 = 0.375 rounds half-up to 0.38
	if got := c.Convert(0.125, "USD", "INR"); got != 0.38 {
		t.Errorf("Expected half-up rounding to 0.38, got %v", got)
	}
}

func TestConvertIdentityFastPath(t *testing.T) {
	c := newTestConverter()

	// Same-currency conversion never touches the rate table, even for
	// currencies the table does not know.
	if got := c.Convert(99.99, "GBP", "GBP"); got != 99.99 {
		t.Errorf("Identity conversion changed the amount: %v", got)
	}
}

func TestConvertUnknownCurrencyFallsBack(t *testing.T) {
	c := newTestConverter()

	// Unknown rate is treated as 1; amount passes through rounded.
	if got := c.Convert(42, "XYZ", "INR"); got != 42 {
		t.Errorf("Expected fallback rate 1 for unknown currency, got %v", got)
	}
}

func TestReference(t *testing.T) {
	c := newTestConverter()
	if c.Reference() != "INR" {
		t.Errorf("Expected reference INR, got %s", c.Reference())
	}
}
