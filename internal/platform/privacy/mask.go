package privacy

import "strings"

// maskPlaceholder replaces values too short to redact partially. It is a
// clearly-fake constant, so degenerate inputs never leak anything.
const maskPlaceholder = "***"

// MaskPhone redacts the interior digits of a phone number, keeping a
// country-code-like prefix and the last three digits:
//
//	"01712345678"     -> "017*****678"
//	"+8801712345678"  -> "+880********678"
//
// Non-digit characters (plus sign, separators) pass through unchanged; they
// carry format, not identity. Inputs with fewer than four digits map to the
// placeholder. The transform is pure, total, and one-way.
func MaskPhone(v string) string {
	runes := []rune(strings.TrimSpace(v))
	digits := 0
	for _, r := range runes {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 4 {
		return maskPlaceholder
	}

	// Keep the first three digits only when enough remain to hide the middle.
	keepLead := 3
	if digits < 7 {
		keepLead = 0
	}

	out := make([]rune, 0, len(runes))
	seen := 0
	for _, r := range runes {
		if r < '0' || r > '9' {
			out = append(out, r)
			continue
		}
		seen++
		if seen <= keepLead || seen > digits-3 {
			out = append(out, r)
		} else {
			out = append(out, '*')
		}
	}
	return string(out)
}

// MaskEmail keeps at most the first two characters of the local part and the
// domain, replacing the rest of the local part with a fixed filler:
//
//	"rahim.uddin@example.gov.bd" -> "ra***@example.gov.bd"
//
// Values without a parseable local@domain shape map to the placeholder.
func MaskEmail(v string) string {
	s := strings.TrimSpace(v)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return maskPlaceholder
	}
	local, domain := s[:at], s[at+1:]

	keep := 2
	if len(local) <= 2 {
		keep = 1
	}
	return local[:keep] + "***@" + domain
}

// MaskIdentifier redacts national-ID-like values (NID, passport, TIN),
// keeping a short non-identifying prefix and the last three characters:
//
//	"19876543210987" -> "19*********987"
//
// Inputs shorter than six characters map to the placeholder.
func MaskIdentifier(v string) string {
	s := strings.TrimSpace(v)
	if len(s) < 6 {
		return maskPlaceholder
	}
	return s[:2] + strings.Repeat("*", len(s)-5) + s[len(s)-3:]
}
