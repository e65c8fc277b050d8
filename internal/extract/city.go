package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// FindCity looks for the business locality: JSON-LD first, then microdata,
// then class-name heuristics, then meta tags.
func FindCity(doc *goquery.Document) string {
	for _, find := range []func(*goquery.Document) string{cityFromJSONLD, cityFromMicrodata, cityFromClass, cityFromMeta} {
		if c := find(doc); c != "" {
			return c
		}
	}
	return ""
}

func cityFromJSONLD(doc *goquery.Document) string {
	var city string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if !gjson.Valid(raw) {
			return true
		}
		city = findLocality(gjson.Parse(raw))
		return city == ""
	})
	return city
}

// findLocality walks objects and arrays depth-first, so @graph and nested
// address blocks are covered.
func findLocality(r gjson.Result) string {
	var found string
	if r.IsObject() || r.IsArray() {
		r.ForEach(func(key, value gjson.Result) bool {
			if key.String() == "addressLocality" && value.Type == gjson.String {
				found = strings.TrimSpace(value.String())
			} else {
				found = findLocality(value)
			}
			return found == ""
		})
	}
	return found
}

func cityFromMicrodata(doc *goquery.Document) string {
	s := doc.Find(`[itemprop="addressLocality"]`).First()
	if s.Length() == 0 {
		return ""
	}
	if c, ok := s.Attr("content"); ok && strings.TrimSpace(c) != "" {
		return strings.TrimSpace(c)
	}
	return collapse(s.Text())
}

func cityFromClass(doc *goquery.Document) string {
	var city string
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !hasCityClass(class) {
			return true
		}
		t := collapse(s.Text())
		if len(t) >= 2 && len(t) <= 50 {
			city = t
			return false
		}
		return true
	})
	return city
}

// hasCityClass matches whole class tokens: city, locality, or a -city,
// _city, -locality, _locality suffix. Substrings such as opacity or
// velocity do not count.
func hasCityClass(class string) bool {
	for _, tok := range strings.Fields(strings.ToLower(class)) {
		for _, word := range []string{"city", "locality"} {
			if tok == word || strings.HasSuffix(tok, "-"+word) || strings.HasSuffix(tok, "_"+word) {
				return true
			}
		}
	}
	return false
}

func cityFromMeta(doc *goquery.Document) string {
	if c, ok := doc.Find(`meta[name="geo.placename"]`).Attr("content"); ok {
		if first := strings.TrimSpace(strings.Split(c, ",")[0]); first != "" {
			return first
		}
	}
	for _, sel := range []string{`meta[property="business:contact_data:locality"]`, `meta[property="og:locality"]`} {
		if c, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
