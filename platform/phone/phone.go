// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is used when formatting numbers for display. The intake
// normalization below also hard-codes a +380 country default; see the
// design notes before generalizing either.
const defaultRegion = "UA"

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{0,14}$`)

// Normalize strips separators and applies the site's dialing-prefix rules:
// a number already carrying "+" is left alone, a number starting with "380"
// gets "+" prepended, anything else gets "+380" prepended.
//
// NOTE: the unconditional "+380" default assumes a Ukrainian audience and
// mangles foreign numbers entered without "+". Kept deliberately to match
// the live site's behavior; do not generalize without a product decision.
func Normalize(input string) string {
	phone := strings.TrimSpace(input)
	for _, sep := range []string{" ", "-", "(", ")"} {
		phone = strings.ReplaceAll(phone, sep, "")
	}

	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}

	if strings.HasPrefix(phone, "380") {
		return "+" + phone
	}
	return "+380" + phone
}

// Valid reports whether a normalized number matches the accepted pattern:
// "+" followed by 1 to 15 digits, first digit 1-9.
func Valid(phone string) bool {
	return e164Pattern.MatchString(phone)
}

// Pretty renders a stored number in human-readable international form for
// notification messages. Falls back to the input when parsing fails.
func Pretty(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}
