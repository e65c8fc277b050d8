package extract

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// escapeRe matches JS/JSON escapes such as \u0022 and \x40 that would
// otherwise glue their hex digits onto a local part.
var escapeRe = regexp.MustCompile(`\\(?:u[0-9a-fA-F]{4}|x[0-9a-fA-F]{2})`)

const maxEmailLen = 100

var imageSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".bmp"}

var placeholderDomains = []string{
	"example.com", "example.org", "example.net", "domain.com", "yourdomain.com",
	"yoursite.com", "email.com", "company.com", "sentry.io", "wixpress.com",
	"sentry-next.wixpress.com", "test.com",
}

var rolePrefixes = map[string]bool{
	"info": true, "contact": true, "support": true,
	"admin": true, "hello": true, "sales": true,
}

// FindEmails returns the plausible addresses across sources, lowercased, in
// first-seen order.
func FindEmails(sources ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, src := range sources {
		src = escapeRe.ReplaceAllString(src, " ")
		for _, m := range emailRe.FindAllString(src, -1) {
			addr := strings.ToLower(strings.Trim(m, ".-"))
			if seen[addr] || junkEmail(addr) {
				continue
			}
			seen[addr] = true
			out = append(out, addr)
		}
	}
	return out
}

func junkEmail(addr string) bool {
	if len(addr) > maxEmailLen {
		return true
	}
	if strings.Contains(addr, "@2x") || strings.Contains(addr, "@3x") {
		return true
	}
	for _, sfx := range imageSuffixes {
		if strings.HasSuffix(addr, sfx) {
			return true
		}
	}

	at := strings.LastIndexByte(addr, '@')
	if at <= 0 || at == len(addr)-1 {
		return true
	}
	domain := addr[at+1:]
	for _, d := range placeholderDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

func isRole(addr string) bool {
	at := strings.IndexByte(addr, '@')
	return at > 0 && rolePrefixes[addr[:at]]
}
