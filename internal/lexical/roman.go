package lexical

import "strings"

// romanValues maps each valid Roman numeral symbol to its value, largest
// first, so ParseRoman can greedily consume symbol groups.
var romanValues = []struct {
	symbol string
	value  int
}{
	{"M", 1000}, {"CM", 900}, {"D", 500}, {"CD", 400},
	{"C", 100}, {"XC", 90}, {"L", 50}, {"XL", 40},
	{"X", 10}, {"IX", 9}, {"V", 5}, {"IV", 4}, {"I", 1},
}

// maxRoman is the largest value a subtractive-notation Roman numeral can
// represent under the conventional bound (spec.md §8: "MMMM" is invalid).
const maxRoman = 3999

// RomanNumeral is the result of a successful ParseRoman call.
type RomanNumeral struct {
	Value       int
	Uppercase   bool
	Text        string
}

// ParseRoman parses a Roman numeral using standard subtractive notation,
// bounded at 3999 (spec.md §4.3, §8). It accepts either all-uppercase or
// all-lowercase input; mixed case is rejected since contract headers
// never mix case within one numeral. Returns ok == false for the empty
// string, for any value exceeding 3999, or for malformed input (e.g.
// repeated subtractive pairs, symbols out of order).
func ParseRoman(s string) (RomanNumeral, bool) {
	if s == "" {
		return RomanNumeral{}, false
	}
	upper := s == strings.ToUpper(s)
	lower := s == strings.ToLower(s)
	if !upper && !lower {
		return RomanNumeral{}, false
	}
	work := strings.ToUpper(s)

	total := 0
	i := 0
	for i < len(work) {
		matched := false
		for _, rv := range romanValues {
			if strings.HasPrefix(work[i:], rv.symbol) {
				total += rv.value
				i += len(rv.symbol)
				matched = true
				break
			}
		}
		if !matched {
			return RomanNumeral{}, false
		}
	}
	if total == 0 || total > maxRoman {
		return RomanNumeral{}, false
	}
	// Round-trip check: reject non-canonical forms like "IIII" or "VV"
	// that happen to sum to a value covered by romanValues greedily but
	// are not how a real numeral would be written.
	if ToRoman(total) != work {
		return RomanNumeral{}, false
	}
	return RomanNumeral{Value: total, Uppercase: upper, Text: s}, true
}

// ToRoman renders value (1..3999) in canonical uppercase Roman notation.
// Values outside that range return an empty string.
func ToRoman(value int) string {
	if value <= 0 || value > maxRoman {
		return ""
	}
	var sb strings.Builder
	for _, rv := range romanValues {
		for value >= rv.value {
			sb.WriteString(rv.symbol)
			value -= rv.value
		}
	}
	return sb.String()
}
