package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gymPage = `<!doctype html>
<html><head>
<title>Iron Gym</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"WebSite","name":"Iron Gym"},
  {"@type":"HealthClub","address":{"@type":"PostalAddress","addressLocality":"Toronto","addressCountry":"CA"}}
]}
</script>
<style>.hero{color:red}</style>
</head><body>
<header><img src="/img/logo@2x.png"></header>
<h1>Iron Gym</h1>
<p>Visit us at 12 King St, Toronto, Ontario, Canada</p>
<p>Write to <a href="mailto:info@irongym.ca">info@irongym.ca</a> or <a href="mailto:jane.doe@irongym.ca">Jane</a></p>
<p>Call <a href="tel:+14165550100">+1 (416) 555-0100</a></p>
<script src="https://static.elfsight.com/platform/platform.js" async></script>
<div class="elfsight-app-1234"></div>
<script>var tracker = "ops@sentry.io";</script>
</body></html>`

func doc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return d
}

func TestExtract_FullPage(t *testing.T) {
	s := Extractor{}.Extract([]byte(gymPage))

	assert.Equal(t, "jane.doe@irongym.ca", s.Email)
	assert.Equal(t, "+14165550100", s.Phone)
	assert.Equal(t, "Toronto", s.City)
	assert.True(t, s.HasTechFootprint)
	assert.Contains(t, s.Text, "Toronto, Ontario, Canada")
	assert.NotContains(t, s.Text, "color:red")
	assert.NotContains(t, s.Text, "tracker")
}

func TestExtract_RolePreference(t *testing.T) {
	s := Extractor{EmailPreference: PreferRole}.Extract([]byte(gymPage))
	assert.Equal(t, "info@irongym.ca", s.Email)
}

func TestExtract_Idempotent(t *testing.T) {
	e := Extractor{}
	assert.Equal(t, e.Extract([]byte(gymPage)), e.Extract([]byte(gymPage)))
}

func TestExtract_Empty(t *testing.T) {
	s := Extractor{}.Extract(nil)
	assert.Empty(t, s.Email)
	assert.Empty(t, s.Phone)
	assert.Empty(t, s.City)
	assert.False(t, s.HasTechFootprint)
}

func TestPickEmail(t *testing.T) {
	specific := Extractor{EmailPreference: PreferSpecific}
	role := Extractor{EmailPreference: PreferRole}

	onlyRole := []string{"sales@a.ca", "info@a.ca"}
	assert.Equal(t, "sales@a.ca", specific.pickEmail(onlyRole))
	assert.Equal(t, "sales@a.ca", role.pickEmail(onlyRole))

	mixed := []string{"info@a.ca", "bob@a.ca"}
	assert.Equal(t, "bob@a.ca", specific.pickEmail(mixed))
	assert.Equal(t, "info@a.ca", role.pickEmail(mixed))

	noRole := []string{"bob@a.ca", "amy@a.ca"}
	assert.Equal(t, "bob@a.ca", role.pickEmail(noRole))

	assert.Empty(t, specific.pickEmail(nil))
}

func TestParseEmailPreference(t *testing.T) {
	p, err := ParseEmailPreference("")
	require.NoError(t, err)
	assert.Equal(t, PreferSpecific, p)

	p, err = ParseEmailPreference("ROLE")
	require.NoError(t, err)
	assert.Equal(t, PreferRole, p)
	assert.Equal(t, "role", p.String())

	_, err = ParseEmailPreference("newest")
	assert.Error(t, err)
}

func TestFindEmails_Junk(t *testing.T) {
	src := `icon@2x.png banner@3x.webp hero.big@img.jpeg
	user@example.com dev@sentry.wixpress.com
	Owner@IronGym.CA owner@irongym.ca ` + strings.Repeat("a", 95) + `@long.ca`
	assert.Equal(t, []string{"owner@irongym.ca"}, FindEmails(src))
}

func TestExtract_EscapedScriptEmail(t *testing.T) {
	page := `<html><head><script>var d="\u0022webmaster@gym.ca\u0022"; var e="\x22ops@gym.ca";</script></head>
<body><p>Mail owner@gym.ca</p></body></html>`
	s := Extractor{}.Extract([]byte(page))
	assert.Equal(t, "owner@gym.ca", s.Email)

	assert.Equal(t, []string{"webmaster@gym.ca"}, FindEmails(`"\u0022webmaster@gym.ca\u0022"`))
}

func TestExtract_TailwindClassIsNotCity(t *testing.T) {
	page := `<html><body><div class="opacity-75">Best Gym</div><p>Visit us in Mumbai, India. Call +91 98765 43210</p></body></html>`
	s := Extractor{}.Extract([]byte(page))
	assert.Empty(t, s.City)
	assert.Equal(t, "+91 98765 43210", s.Phone)
}

func TestHasTechFootprint(t *testing.T) {
	assert.True(t, HasTechFootprint([]byte(`<div class="eapps-instagram-feed"></div>`)))
	assert.True(t, HasTechFootprint([]byte(`<script src="https://ELFSIGHTCDN.com/x.js">`)))
	assert.False(t, HasTechFootprint([]byte(`<p>Elf sightings</p>`)))
}

func TestVisibleText(t *testing.T) {
	d := doc(t, `<html><body><ul><li>Toronto</li><li>Ontario</li></ul><noscript>enable js</noscript><!-- hidden --></body></html>`)
	assert.Equal(t, "Toronto Ontario", VisibleText(d))
}
