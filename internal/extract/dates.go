package extract

import "regexp"

const untilSuffix = `(?:まで|迄)?`

// fullDate matches YYYY/MM/DD with ASCII or full-width digits and any of
// "/", "／", "-" as separators.
const fullDate = digit + `{4}[/／-]` + digit + `{1,2}[/／-]` + digit + `{1,2}`

var fullDateRe = regexp.MustCompile(`^` + fullDate)

// datePatterns are applied in order. Order matters: it fixes the candidate
// order before scoring. The month/day form takes only "/" and "／" so
// phone numbers such as 090-1234-5678 never read as dates.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(fullDate),
	regexp.MustCompile(digit + `{1,2}[/／]` + digit + `{1,2}` + untilSuffix),
	regexp.MustCompile(digit + `{1,2}月` + digit + `{1,2}日` + untilSuffix),
	regexp.MustCompile(digit + `{1,2}日` + untilSuffix),
	regexp.MustCompile(`明後日`),
	regexp.MustCompile(`明日`),
	regexp.MustCompile(`今日`),
	regexp.MustCompile(`来週[月火水木金土日]曜`),
	regexp.MustCompile(`今週[月火水木金土日]曜`),
}

// timePattern is one clock-time rule. trailing additionally requires that
// the match is not glued to a following digit or ASCII letter.
type timePattern struct {
	re       *regexp.Regexp
	trailing bool
}

var timePatterns = []timePattern{
	{re: regexp.MustCompile(digit + `{1,2}:` + digit + `{2}`), trailing: true},
	{re: regexp.MustCompile(digit + `{1,2}時(?:` + digit + `{1,2}分)?`)},
	{re: regexp.MustCompile(`午前` + digit + `{1,2}時(?:` + digit + `{1,2}分)?`)},
	{re: regexp.MustCompile(`午後` + digit + `{1,2}時(?:` + digit + `{1,2}分)?`)},
}

// DateCandidates returns every date expression in text, verbatim, in
// pattern order and then order of appearance, with duplicates removed.
// Expressions are never normalized or given a year.
func DateCandidates(text string) []string {
	if text == "" {
		return []string{}
	}
	var found []string
	for _, re := range datePatterns {
		found = append(found, re.FindAllString(text, -1)...)
	}
	return Dedupe(found)
}

// TimeCandidates returns clock-time expressions such as "10:30", "14時",
// or "午後3時30分".
func TimeCandidates(text string) []string {
	if text == "" {
		return []string{}
	}
	var found []string
	for _, p := range timePatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			if r := runeBefore(text, loc[0]); isGlueRune(r) {
				continue
			}
			if p.trailing && isGlueRune(runeAt(text, loc[1])) {
				continue
			}
			found = append(found, text[loc[0]:loc[1]])
		}
	}
	return Dedupe(found)
}

// IsFullDate reports whether candidate starts with a YYYY/MM/DD form.
func IsFullDate(candidate string) bool {
	return fullDateRe.MatchString(candidate)
}
