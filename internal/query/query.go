// Package query turns a (category, city, country) triple into search queries.
package query

import "strings"

// Build joins the non-empty parts with single spaces, without connecting words
// such as "in".
func Build(category, city, country string) string {
	return join(category, city, country)
}

// Variants returns the primary query followed by the fallbacks that are tried
// when the primary yields nothing from an engine. Fallbacks exist only when a
// city is present.
func Variants(category, city, country string) []string {
	primary := Build(category, city, country)
	if primary == "" {
		return nil
	}
	out := []string{primary}
	if strings.TrimSpace(city) == "" {
		return out
	}

	seen := map[string]struct{}{primary: {}}
	for _, v := range []string{
		join(category, city),
		join(category, "near", city, country),
	} {
		if _, dup := seen[v]; dup || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func join(parts ...string) string {
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		fields = append(fields, strings.Fields(p)...)
	}
	return strings.Join(fields, " ")
}
