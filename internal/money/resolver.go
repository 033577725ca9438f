package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUnparsablePrice = errors.New("could not calculate price")
	ErrNonPositive     = errors.New("total amount must be positive")
	ErrBelowMinimum    = errors.New("amount is below the minimum chargeable unit")
	ErrOverLimit       = errors.New("amount exceeds the gateway limit for this currency")
)

// Amount is the gateway-ready result of resolving a priced string.
// Immutable once computed.
type Amount struct {
	MajorUnits float64
	Currency   string
	MinorUnits int64
}

// currencyMarkers is scanned in priority order; the first currency whose
// symbol or code appears anywhere in the price string wins.
var currencyMarkers = []struct {
	code    string
	markers []string
}{
	{"INR", []string{"₹", "INR"}},
	{"USD", []string{"$", "USD"}},
	{"EUR", []string{"€", "EUR"}},
	{"GBP", []string{"£", "GBP"}},
	{"JPY", []string{"¥", "JPY"}},
	{"KRW", []string{"₩", "KRW"}},
}

// currencies without a fractional minor unit
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
}

// maxMinorUnits caps what the gateway accepts per charge, in minor units.
var maxMinorUnits = map[string]int64{
	"USD": 99_999_999,
	"EUR": 99_999_999,
	"GBP": 99_999_999,
	"JPY": 99_999_999,
	"INR": 999_999_999,
}

const defaultMaxMinorUnits int64 = 99_999_999

// DetectCurrency returns the ISO 4217 code found in the priced string,
// defaulting to USD when no known symbol or code is present.
func DetectCurrency(price string) string {
	for _, c := range currencyMarkers {
		for _, m := range c.markers {
			if strings.Contains(price, m) {
				return c.code
			}
		}
	}
	return "USD"
}

// Resolve turns a free-text priced string and a passenger count into a
// charge amount. It is a pure function: identical inputs always yield
// identical outputs.
func Resolve(price string, passengerCount int) (Amount, error) {
	if passengerCount < 1 {
		return Amount{}, fmt.Errorf("passenger count %d: %w", passengerCount, ErrNonPositive)
	}

	currency := DetectCurrency(price)

	base, err := parsePrice(price)
	if err != nil {
		return Amount{}, err
	}

	total := base * float64(passengerCount)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return Amount{}, ErrNonPositive
	}

	var minor int64
	var major float64
	if zeroDecimalCurrencies[currency] {
		minor = int64(math.Round(total))
		major = float64(minor)
	} else {
		minor = int64(math.Round(total * 100))
		major = float64(minor) / 100
	}

	if minor < 1 {
		return Amount{}, ErrBelowMinimum
	}
	limit, ok := maxMinorUnits[currency]
	if !ok {
		limit = defaultMaxMinorUnits
	}
	if minor > limit {
		return Amount{}, fmt.Errorf("%d %s minor units over limit %d: %w", minor, currency, limit, ErrOverLimit)
	}

	return Amount{MajorUnits: major, Currency: currency, MinorUnits: minor}, nil
}

// parsePrice strips everything except digits and the decimal point and
// parses the remainder. A missing or zero number is a hard error, never
// a silent fallback.
func parsePrice(price string) (float64, error) {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value in %q: %w", price, ErrUnparsablePrice)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", cleaned, ErrUnparsablePrice)
	}
	if v == 0 || math.IsNaN(v) {
		return 0, fmt.Errorf("price %q resolves to zero: %w", price, ErrUnparsablePrice)
	}
	return v, nil
}
