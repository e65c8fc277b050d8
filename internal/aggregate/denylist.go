package aggregate

import (
	"net/url"
	"strings"
)

// Denylist rejects hosts that are directories, social networks, search
// engines or institutional sites rather than businesses.
type Denylist struct {
	domains  []string
	suffixes []string
}

var defaultDomains = []string{
	// social
	"facebook.com", "instagram.com", "twitter.com", "x.com", "linkedin.com",
	"youtube.com", "tiktok.com", "pinterest.com", "reddit.com", "quora.com",
	"threads.net", "whatsapp.com", "t.me",
	// directories and review aggregators
	"yelp.com", "yelp.ca", "yelp.co.uk", "justdial.com", "indiamart.com",
	"sulekha.com", "yellowpages.com", "yellowpages.ca", "yellowpages.com.au",
	"yell.com", "tripadvisor.com", "tripadvisor.in", "tripadvisor.ca",
	"tripadvisor.co.uk", "foursquare.com", "mapquest.com", "trustpilot.com",
	"bbb.org", "hotfrog.com", "cylex.ca", "manta.com", "zomato.com",
	"groupon.com", "booking.com", "expedia.com", "glassdoor.com", "indeed.com",
	"crunchbase.com", "angi.com", "thumbtack.com", "houzz.com", "clutch.co",
	"classpass.com", "mindbody.io", "mindbodyonline.com", "practo.com",
	"magicpin.in", "nearbuy.com", "zaubacorp.com", "tofler.in",
	// search engines and portals
	"google.com", "bing.com", "duckduckgo.com", "yahoo.com", "mojeek.com",
	"brave.com", "search.brave.com", "baidu.com", "yandex.com", "ask.com",
	"amazon.com", "amazon.in", "ebay.com", "apple.com",
	// reference
	"wikipedia.org", "wikimedia.org", "wikidata.org", "wikitravel.org",
	"wikivoyage.org", "fandom.com", "medium.com", "blogspot.com", "wordpress.com",
}

var defaultSuffixes = []string{
	".gov", ".edu", ".mil", ".gov.in", ".nic.in", ".ac.in", ".edu.in",
	".gov.uk", ".ac.uk", ".nhs.uk", ".gc.ca", ".gov.au", ".edu.au",
	".govt.nz", ".ac.nz", ".gov.sg", ".edu.sg", ".gov.za", ".ac.za",
	".gov.pk", ".edu.pk", ".gov.ae", ".go.ke", ".gov.ng", ".gov.ph", ".edu.ph",
	".gov.my", ".edu.my", ".gov.bd", ".gov.lk", ".gov.np", ".gob.mx",
	".gov.br", ".gob.es", ".gouv.fr", ".bund.de",
}

// DefaultDenylist returns the built-in list extended by extra entries.
func DefaultDenylist(extra ...string) *Denylist {
	entries := make([]string, 0, len(defaultDomains)+len(defaultSuffixes)+len(extra))
	entries = append(entries, defaultDomains...)
	entries = append(entries, defaultSuffixes...)
	entries = append(entries, extra...)
	return NewDenylist(entries...)
}

// NewDenylist builds a list from entries. An entry starting with "." is a
// suffix; any other entry blocks that domain and its subdomains.
func NewDenylist(entries ...string) *Denylist {
	d := &Denylist{}
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		switch {
		case e == "" || e == ".":
		case strings.HasPrefix(e, "."):
			d.suffixes = append(d.suffixes, e)
		default:
			d.domains = append(d.domains, strings.TrimPrefix(e, "www."))
		}
	}
	return d
}

// Blocked reports whether link's host is denied. Unparseable links are
// blocked.
func (d *Denylist) Blocked(link string) bool {
	if d == nil {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return true
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	for _, blocked := range d.domains {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	for _, sfx := range d.suffixes {
		if strings.HasSuffix(host, sfx) {
			return true
		}
	}
	return false
}
