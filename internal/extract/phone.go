package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tried in order; earlier patterns are more specific.
var phonePatterns = []*regexp.Regexp{
	// international, e.g. +91 98765 43210, +1 (416) 555-0100
	regexp.MustCompile(`\+\d{1,3}[\s.\-]?\(?\d{1,4}\)?(?:[\s.\-]?\d{2,5}){2,4}`),
	// North American, e.g. (416) 555-0100, 416.555.0100
	regexp.MustCompile(`\(?\b\d{3}\)?[\s.\-]\d{3}[\s.\-]\d{4}\b`),
	// Indian mobile, e.g. 98765 43210
	regexp.MustCompile(`\b[6-9]\d{4}[\s\-]?\d{5}\b`),
	// trunk-zero national, e.g. 020 7946 0958
	regexp.MustCompile(`\b0\d{2,4}[\s\-]?\d{3,4}[\s\-]?\d{3,4}\b`),
}

// FindPhone returns the first plausible phone number, preferring tel: links
// over numbers in the page text. The original formatting is kept.
func FindPhone(doc *goquery.Document, text string) string {
	var candidates []string
	doc.Find(`a[href^="tel:"], a[href^="TEL:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		num := href[len("tel:"):]
		if dec, err := url.PathUnescape(num); err == nil {
			num = dec
		}
		candidates = append(candidates, strings.TrimSpace(num))
	})
	for _, re := range phonePatterns {
		candidates = append(candidates, re.FindAllString(text, -1)...)
	}

	seen := make(map[string]bool)
	for _, c := range candidates {
		norm := NormalizePhone(c)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		if len(norm) >= 10 && len(norm) <= 15 {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

// NormalizePhone keeps digits and a leading plus.
func NormalizePhone(s string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
