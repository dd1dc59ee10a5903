// Package contacts holds contact-list business logic: name normalization,
// tabular import reconciliation and export.
package contacts

import "strings"

// NormalizeName reconciles a combined display name with separate first/last
// fields so both representations end up populated. Explicit first/last
// input always takes precedence; the display name is only split when no
// explicit parts are supplied.
func NormalizeName(name, firstName, lastName string) (string, string, string) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName != "" || lastName != "" {
		return strings.TrimSpace(firstName + " " + lastName), firstName, lastName
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ""
	}
	first, last := SplitName(name)
	return name, first, last
}

// SplitName derives given and family names from a combined display name.
// A name containing whitespace follows the Western convention: the last
// whitespace-delimited token is the surname, everything before it the given
// name. A name without whitespace is treated as surname-first with a
// single-rune surname, which fits the common CJK case ("李四" → 李 / 四)
// but misreads single-word Western given names and multi-rune CJK
// surnames. The heuristic is lossy; supply explicit first/last fields to
// override it.
func SplitName(name string) (first, last string) {
	fields := strings.Fields(name)
	switch {
	case len(fields) == 0:
		return "", ""
	case len(fields) > 1:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}

	runes := []rune(fields[0])
	if len(runes) == 1 {
		return "", string(runes)
	}
	return string(runes[1:]), string(runes[0])
}
