package serp

import (
	"encoding/base64"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// titleSeparators mark where a site name or tagline usually starts.
var titleSeparators = []string{" | ", " - ", " – ", " — ", " :: ", " » "}

// CleanTitle cuts a result title at the earliest separator. A cut that would
// leave nothing keeps the trimmed original.
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	cut := -1
	for _, sep := range titleSeparators {
		if i := strings.Index(title, sep); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut < 0 {
		return title
	}
	if short := strings.TrimSpace(title[:cut]); short != "" {
		return short
	}
	return title
}

// UnwrapLink resolves search engine redirectors to the destination URL.
// Links that cannot be unwrapped are returned trimmed but otherwise intact.
func UnwrapLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()

	if dest := q.Get("uddg"); isAbsolute(dest) {
		return dest
	}

	if strings.HasPrefix(u.Path, "/ck/a") {
		if enc := q.Get("u"); strings.HasPrefix(enc, "a1") {
			dec, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(enc[2:], "="))
			if err == nil && isAbsolute(string(dec)) {
				return string(dec)
			}
		}
	}

	if u.Path == "/url" {
		for _, key := range []string{"q", "url"} {
			if dest := q.Get(key); isAbsolute(dest) {
				return dest
			}
		}
	}
	return raw
}

// IsRedirector reports whether link still has the shape of an engine
// redirect (/l/?uddg=, /ck/a, /url), i.e. UnwrapLink could not resolve it.
func IsRedirector(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Query().Has("uddg") ||
		strings.HasPrefix(u.Path, "/l/") ||
		strings.HasPrefix(u.Path, "/ck/a") ||
		u.Path == "/url"
}

// IsAbsolute reports whether link is an absolute http(s) URL with a host.
func IsAbsolute(link string) bool { return isAbsolute(link) }

func isAbsolute(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var strict = bluemonday.StrictPolicy()

// CleanSnippet strips markup and collapses whitespace.
func CleanSnippet(s string) string {
	return collapse(html.UnescapeString(strict.Sanitize(s)))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
