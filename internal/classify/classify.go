package classify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Job classes recognized by the classifier. These match the category
// values the search scrapers write, so classified rows stay queryable
// alongside rows tagged from an explicit category search.
const (
	ClassSoftware = "software"
	ClassFinance  = "finance"
)

var (
	softwareRegex = regexp.MustCompile(`(?i)\b(software|developer|programmer|devops|sre|golang|java|python|javascript|frontend|backend|back[\s-]?end|front[\s-]?end|full[\s-]?stack|mobile\s+app|data\s+(engineer|scientist)|machine\s+learning|qa\s+engineer|system\s+engineer|it\s+support|cloud)\b`)
	financeRegex  = regexp.MustCompile(`(?i)\b(accountant|accounting|finance|financial|auditor|audit|banking|treasury|bookkeep\w*|tax|actuar\w*|investment|equity|portfolio|compliance\s+officer)\b`)
	//generic "engineer" only counts as software alongside a tech hint
	techHintRegex = regexp.MustCompile(`(?i)\b(api|sql|linux|docker|kubernetes|aws|gcp|azure|git|agile|scrum)\b`)
	engineerRegex = regexp.MustCompile(`(?i)\bengineer\b`)
)

// Normalize strips diacritics and lowercases, so accented titles match
// the ASCII keyword patterns.
func Normalize(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// JobClass assigns a class to a posting from its title and description.
// Returns "" when neither class matches; callers treat that as
// unclassified rather than guessing.
func JobClass(title, description string) string {
	text := Normalize(title + " " + description)

	softwareHit := softwareRegex.MatchString(text) ||
		(engineerRegex.MatchString(text) && techHintRegex.MatchString(text))
	financeHit := financeRegex.MatchString(text)

	switch {
	case softwareHit && !financeHit:
		return ClassSoftware
	case financeHit && !softwareHit:
		return ClassFinance
	case softwareHit && financeHit:
		//fintech postings mention both; title wins
		if softwareRegex.MatchString(Normalize(title)) {
			return ClassSoftware
		}
		return ClassFinance
	default:
		return ""
	}
}
