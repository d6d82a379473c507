package research

import "strings"

// Domains whose health content is accepted without further checks.
var trustedDomains = []string{
	"who.int",
	"cdc.gov",
	"nih.gov",
	"mayoclinic.org",
	"webmd.com",
	"healthline.com",
	"medlineplus.gov",
}

var healthKeywords = []string{
	"health",
	"medical",
	"medicine",
	"symptom",
	"treatment",
	"disease",
}

// FilterTrusted keeps results whose URL belongs to a trusted health
// domain, up to max.
func FilterTrusted(results []Result, max int) []Result {
	if max <= 0 {
		return nil
	}
	var filtered []Result
	for _, r := range results {
		if !isTrusted(r.Link) {
			continue
		}
		filtered = append(filtered, r)
		if len(filtered) >= max {
			break
		}
	}
	return filtered
}

// FilterHealthKeyword is the fallback when no trusted source matched: it
// keeps results among the first max whose title or snippet mentions a
// health topic. Later results are not considered, so a search that only
// surfaces health content far down the ranking yields nothing.
func FilterHealthKeyword(results []Result, max int) []Result {
	if max <= 0 {
		return nil
	}
	if len(results) > max {
		results = results[:max]
	}
	var filtered []Result
	for _, r := range results {
		title := strings.ToLower(r.Title)
		snippet := strings.ToLower(r.Snippet)
		for _, kw := range healthKeywords {
			if strings.Contains(title, kw) || strings.Contains(snippet, kw) {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered
}

func isTrusted(link string) bool {
	lower := strings.ToLower(link)
	for _, domain := range trustedDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}
