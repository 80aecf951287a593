package services

import (
	"regexp"
	"strconv"
	"strings"
)

// ReceiptService best-effort parses text extracted from a receipt image
// into expense form fields. Text recognition itself happens on the client;
// this only has to make sense of whatever came out of it.
type ReceiptService struct{}

// NewReceiptService creates a new receipt service
func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// ParsedReceipt holds whatever fields could be recognized; zero values mean
// the field was not found and the form stays blank.
type ParsedReceipt struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	SpendDate   string  `json:"spend_date"`
	Description string  `json:"description"`
}

var (
	// "Total: $42.50", "GRAND TOTAL 1,299.00", "amount due ₹ 450"
	totalLineRe = regexp.MustCompile(`(?i)(?:grand\s+)?(?:total|amount)(?:\s+due)?\s*[:\-]?\s*(?:USD|EUR|INR|GBP|[$€£₹])?\s*([\d,]+(?:\.\d{1,2})?)`)
	// any currency-prefixed figure, fallback when no total line exists
	moneyRe = regexp.MustCompile(`(?:USD|EUR|INR|GBP|[$€£₹])\s*([\d,]+(?:\.\d{1,2})?)`)

	currencyCodeRe   = regexp.MustCompile(`\b(USD|EUR|INR|GBP)\b`)
	currencySymbolRe = regexp.MustCompile(`[$€£₹]`)

	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.](\d{4})\b`)
)

var symbolCurrency = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"₹": "INR",
}

// Parse extracts amount, currency, date and a description line from raw
// receipt text. Every field is independent; whatever cannot be recognized
// is simply left empty.
func (s *ReceiptService) Parse(text string) *ParsedReceipt {
	out := &ParsedReceipt{}

	if m := totalLineRe.FindStringSubmatch(text); m != nil {
		out.Amount = parseMoney(m[1])
	} else if m := moneyRe.FindStringSubmatch(text); m != nil {
		out.Amount = parseMoney(m[1])
	}

	if m := currencyCodeRe.FindString(text); m != "" {
		out.Currency = m
	} else if m := currencySymbolRe.FindString(text); m != "" {
		out.Currency = symbolCurrency[m]
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		out.SpendDate = m[0]
	} else if m := slashDateRe.FindStringSubmatch(text); m != nil {
		// dd/mm/yyyy normalized to ISO
		out.SpendDate = m[3] + "-" + pad2(m[2]) + "-" + pad2(m[1])
	}

	// First non-empty line that is not the recognized amount or date reads
	// as the merchant / description.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || totalLineRe.MatchString(line) || isoDateRe.MatchString(line) || slashDateRe.MatchString(line) {
			continue
		}
		out.Description = line
		break
	}

	return out
}

func parseMoney(raw string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
