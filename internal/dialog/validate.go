package dialog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	errInvalidEmail      = errors.New("that doesn't look like a valid email address")
	errInvalidCardNumber = errors.New("card number must be 13-19 digits and pass the card check")
	errInvalidExpiry     = errors.New("expiry must be MM/YY and not in the past")
	errInvalidCVV        = errors.New("CVV must be 3 or 4 digits")
	errEmptyField        = errors.New("this field cannot be empty")
)

func validateEmail(s string) error {
	if !emailPattern.MatchString(strings.TrimSpace(s)) {
		return errInvalidEmail
	}
	return nil
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errEmptyField
	}
	return nil
}

// validateCardNumber accepts 13-19 digits (spaces and dashes ignored)
// passing the Luhn checksum.
func validateCardNumber(s string) error {
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if len(digits) < 13 || len(digits) > 19 {
		return errInvalidCardNumber
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '0' || digits[i] > '9' {
			return errInvalidCardNumber
		}
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	if sum%10 != 0 {
		return errInvalidCardNumber
	}
	return nil
}

// validateExpiry checks MM/YY format and that the card is valid through
// at least the current month.
func validateExpiry(s string, now time.Time) error {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return errInvalidExpiry
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return errInvalidExpiry
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return errInvalidExpiry
	}
	year += 2000

	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return errInvalidExpiry
	}
	return nil
}

func validateCVV(s string) error {
	v := strings.TrimSpace(s)
	if len(v) != 3 && len(v) != 4 {
		return errInvalidCVV
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return errInvalidCVV
		}
	}
	return nil
}
