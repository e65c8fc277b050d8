// Package extract pulls contact and location signals out of a page body.
// Every function here is pure: the same bytes always give the same Signals.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EmailPreference picks one address when a page lists several.
type EmailPreference int

const (
	// PreferSpecific takes the first non-role address, falling back to the
	// first role address.
	PreferSpecific EmailPreference = iota
	// PreferRole takes the first role address (info@, contact@ ...), falling
	// back to the first address found.
	PreferRole
)

// ParseEmailPreference accepts "specific" (or "") and "role".
func ParseEmailPreference(s string) (EmailPreference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "specific":
		return PreferSpecific, nil
	case "role":
		return PreferRole, nil
	}
	return PreferSpecific, fmt.Errorf("extract: unknown email preference %q", s)
}

func (p EmailPreference) String() string {
	if p == PreferRole {
		return "role"
	}
	return "specific"
}

// Signals is everything extracted from one page.
type Signals struct {
	Email            string
	Phone            string
	City             string
	HasTechFootprint bool
	// Text is the visible page text with whitespace collapsed.
	Text string
}

// Extractor holds extraction policy.
type Extractor struct {
	EmailPreference EmailPreference
}

// Extract parses body and returns its signals.
func (e Extractor) Extract(body []byte) Signals {
	s := Signals{HasTechFootprint: HasTechFootprint(body)}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		s.Email = e.pickEmail(FindEmails(string(body)))
		return s
	}

	s.Text = VisibleText(doc)
	s.Email = e.pickEmail(FindEmails(s.Text, string(body)))
	s.Phone = FindPhone(doc, s.Text)
	s.City = FindCity(doc)
	return s
}

func (e Extractor) pickEmail(emails []string) string {
	if len(emails) == 0 {
		return ""
	}
	var firstRole, firstSpecific string
	for _, addr := range emails {
		if isRole(addr) {
			if firstRole == "" {
				firstRole = addr
			}
		} else if firstSpecific == "" {
			firstSpecific = addr
		}
	}

	if e.EmailPreference == PreferRole {
		if firstRole != "" {
			return firstRole
		}
		return emails[0]
	}
	if firstSpecific != "" {
		return firstSpecific
	}
	return firstRole
}

// VisibleText returns the text a reader would see, without scripts or
// styles. Text nodes are joined with spaces so adjacent blocks stay apart.
func VisibleText(doc *goquery.Document) string {
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Svg:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range root.Nodes {
		walk(n)
	}
	return collapse(b.String())
}

var footprintMarkers = [][]byte{
	[]byte("elfsight.com"),
	[]byte("elfsightcdn.com"),
	[]byte("elfsight-app-"),
	[]byte("eapps-"),
}

// HasTechFootprint reports whether the page embeds the Elfsight widget
// platform.
func HasTechFootprint(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, m := range footprintMarkers {
		if bytes.Contains(lower, m) {
			return true
		}
	}
	return false
}
