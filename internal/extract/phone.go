package extract

import (
	"regexp"
	"strings"
)

// Phone patterns in order of specificity; the first match wins.
var phonePatterns = []*regexp.Regexp{
	// International prefix: +886-2-1234-5678 / +886 912 345 678.
	regexp.MustCompile(`\+886[-\s]?\d{1,2}[-\s]?\d{3,4}[-\s]?\d{3,4}`),
	// Area code with optional separators: 02-1234-5678, 04 2327 3199.
	regexp.MustCompile(`0\d{1,2}[-\s]?\d{3,4}[-\s]?\d{4}`),
	// Bare 10-11 digit number: 0912345678.
	regexp.MustCompile(`0\d{9,10}`),
	// Parenthesized area code: (02) 1234-5678.
	regexp.MustCompile(`\(\d{2,3}\)\s?\d{3,4}[-\s]?\d{4}`),
}

var phoneStrip = regexp.MustCompile(`[\s()]`)

// ExtractPhone finds the first phone number in text and normalizes it to
// the canonical hyphenated form.
func ExtractPhone(text string) string {
	for _, pattern := range phonePatterns {
		if m := pattern.FindString(text); m != "" {
			return normalizePhone(m)
		}
	}
	return ""
}

// normalizePhone strips whitespace and parentheses, then re-inserts
// canonical hyphens for bare 10-digit numbers. Landlines (second digit
// 2-8) split 2-4-4; mobiles split 4-3-3. Numbers that already carry
// separators or an international prefix are returned digit-for-digit.
func normalizePhone(raw string) string {
	phone := phoneStrip.ReplaceAllString(raw, "")
	if len(phone) == 10 && strings.HasPrefix(phone, "0") {
		if phone[1] >= '2' && phone[1] <= '8' {
			return phone[:2] + "-" + phone[2:6] + "-" + phone[6:]
		}
		return phone[:4] + "-" + phone[4:7] + "-" + phone[7:]
	}
	return phone
}
