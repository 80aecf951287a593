package services

import "testing"

func TestParseReceipt(t *testing.T) {
	svc := NewReceiptService()

	tests := []struct {
		name         string
		text         string
		wantAmount   float64
		wantCurrency string
		wantDate     string
		wantDesc     string
	}{
		{
			name:         "dollar total with ISO date",
			text:         "Blue Bottle Coffee\n2025-11-02\nTotal: $42.50",
			wantAmount:   42.50,
			wantCurrency: "USD",
			wantDate:     "2025-11-02",
			wantDesc:     "Blue Bottle Coffee",
		},
		{
			name:         "rupee symbol with slash date",
			text:         "City Cabs\nAmount due ₹ 450\n02/11/2025",
			wantAmount:   450,
			wantCurrency: "INR",
			wantDate:     "2025-11-02",
			wantDesc:     "City Cabs",
		},
		{
			name:         "currency code and thousands separator",
			text:         "Grand Hotel\nGRAND TOTAL EUR 1,299.00\n2025-10-20",
			wantAmount:   1299,
			wantCurrency: "EUR",
			wantDate:     "2025-10-20",
			wantDesc:     "Grand Hotel",
		},
		{
			name:       "no recognizable fields",
			text:       "thank you for your visit",
			wantAmount: 0,
			wantDesc:   "thank you for your visit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Parse(tt.text)
			if got.Amount != tt.wantAmount {
				t.Errorf("Amount = %v, want %v", got.Amount, tt.wantAmount)
			}
			if got.Currency != tt.wantCurrency {
				t.Errorf("Currency = %q, want %q", got.Currency, tt.wantCurrency)
			}
			if got.SpendDate != tt.wantDate {
				t.Errorf("SpendDate = %q, want %q", got.SpendDate, tt.wantDate)
			}
			if got.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", got.Description, tt.wantDesc)
			}
		})
	}
}
