package geo

// Country is one supported country. Names are matched case-insensitively;
// Codes are matched exactly so that "US" never matches "us".
type Country struct {
	Name  string
	Names []string
	Codes []string
}

var defaultCountries = []Country{
	{Name: "India", Names: []string{"india", "bharat"}},
	{Name: "United States", Names: []string{"united states", "united states of america"}, Codes: []string{"USA", "U.S.A.", "U.S."}},
	{Name: "United Kingdom", Names: []string{"united kingdom", "great britain", "scotland"}, Codes: []string{"UK", "U.K."}},
	{Name: "Canada", Names: []string{"canada"}},
	{Name: "Australia", Names: []string{"australia"}},
	{Name: "United Arab Emirates", Names: []string{"united arab emirates"}, Codes: []string{"UAE", "U.A.E."}},
	{Name: "Germany", Names: []string{"germany", "deutschland"}},
	{Name: "France", Names: []string{"france"}},
	{Name: "Singapore", Names: []string{"singapore"}},
	{Name: "New Zealand", Names: []string{"new zealand", "aotearoa"}, Codes: []string{"NZ"}},
	{Name: "South Africa", Names: []string{"south africa"}},
	{Name: "Pakistan", Names: []string{"pakistan"}},
	{Name: "Ireland", Names: []string{"ireland", "éire"}},
	{Name: "Netherlands", Names: []string{"netherlands", "holland", "nederland"}},
	{Name: "Spain", Names: []string{"spain", "españa"}},
	{Name: "Italy", Names: []string{"italy", "italia"}},
	{Name: "Brazil", Names: []string{"brazil", "brasil"}},
	{Name: "Mexico", Names: []string{"mexico", "méxico"}},
	{Name: "Nigeria", Names: []string{"nigeria"}},
	{Name: "Kenya", Names: []string{"kenya"}},
	{Name: "Philippines", Names: []string{"philippines", "pilipinas"}},
	{Name: "Malaysia", Names: []string{"malaysia"}},
	{Name: "Bangladesh", Names: []string{"bangladesh"}},
	{Name: "Sri Lanka", Names: []string{"sri lanka"}},
	{Name: "Nepal", Names: []string{"nepal"}},
}

// Countries returns a copy of the built-in table.
func Countries() []Country {
	out := make([]Country, len(defaultCountries))
	copy(out, defaultCountries)
	return out
}
