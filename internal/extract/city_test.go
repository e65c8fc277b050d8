package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindCity(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"json-ld array",
			`<script type="application/ld+json">[{"@type":"Thing"},{"address":[{"addressLocality":"Mumbai"}]}]</script>`,
			"Mumbai",
		},
		{
			"json-ld invalid falls through",
			`<script type="application/ld+json">{broken</script><span itemprop="addressLocality"> Pune </span>`,
			"Pune",
		},
		{
			"microdata content attr",
			`<meta itemprop="addressLocality" content="Leeds">`,
			"Leeds",
		},
		{
			"class heuristic",
			`<span class="footer-city">X</span><span class="addr-city">Calgary</span>`,
			"Calgary",
		},
		{
			"class token among others",
			`<div class="text-sm city">Ottawa</div>`,
			"Ottawa",
		},
		{
			"class substrings ignored",
			`<div class="opacity-75">Best Gym</div><p class="velocity capacity-max">Fast</p>`,
			"",
		},
		{
			"geo.placename",
			`<meta name="geo.placename" content="Sydney, New South Wales">`,
			"Sydney",
		},
		{
			"og:locality",
			`<meta property="og:locality" content="Austin">`,
			"Austin",
		},
		{"none", `<p>hello</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := doc(t, "<html><head></head><body>"+tt.html+"</body></html>")
			assert.Equal(t, tt.want, FindCity(d))
		})
	}
}

func TestHasCityClass(t *testing.T) {
	assert.True(t, hasCityClass("city"))
	assert.True(t, hasCityClass("footer addr_locality"))
	assert.True(t, hasCityClass("Contact-City"))
	assert.False(t, hasCityClass("opacity-75"))
	assert.False(t, hasCityClass("velocity electricity"))
	assert.False(t, hasCityClass("city-list"))
	assert.False(t, hasCityClass(""))
}
