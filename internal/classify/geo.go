package classify

import "strings"

// Region is one geography bucket and the keywords that select it.
type Region struct {
	Name     string
	Keywords []string
}

// Regions is checked in order; the first region with a keyword hit wins.
var Regions = []Region{
	{"Silicon Valley", []string{"silicon valley", "bay area", "san francisco", "palo alto", "menlo park"}},
	{"New York", []string{"new york", "nyc", "brooklyn", "manhattan"}},
	{"Boston", []string{"boston", "cambridge", "massachusetts", "new england"}},
	{"Midwest", []string{"midwest", "chicago", "detroit", "minneapolis", "ohio", "michigan", "illinois"}},
	{"Southeast", []string{"southeast", "atlanta", "miami", "florida", "carolina", "tennessee", "georgia"}},
	{"Texas", []string{"texas", "austin", "dallas", "houston", "san antonio"}},
	{"Pacific Northwest", []string{"pacific northwest", "seattle", "portland", "oregon"}},
	{"Europe", []string{"europe", "european", "uk", "london", "berlin", "paris", "amsterdam"}},
	{"Asia", []string{"asia", "china", "india", "japan", "singapore", "hong kong"}},
	{"Global", []string{"global", "worldwide", "international", "across the world"}},
	{"USA", []string{"usa", "united states", "america", "american", "nationwide", "national", "across the country"}},
}

// California is the bucket for locations that only name the state.
const California = "California"

const defaultRegion = "USA"

// GeoFocus returns the first region whose keywords appear in text, or "USA".
func GeoFocus(text string) string {
	if r, ok := matchRegion(strings.ToLower(text)); ok {
		return r
	}
	return defaultRegion
}

// RegionForLocation maps a provider headquarters string to a region. It uses
// the same table as GeoFocus, then falls back to California for "ca" or
// "california" before defaulting to "USA".
func RegionForLocation(location string) string {
	lower := strings.ToLower(location)
	if lower == "" {
		return defaultRegion
	}
	if r, ok := matchRegion(lower); ok {
		return r
	}
	if strings.Contains(lower, "ca") || strings.Contains(lower, "california") {
		return California
	}
	return defaultRegion
}

// RegionNames lists the buckets a profile can carry, for filter menus.
func RegionNames() []string {
	names := make([]string, 0, len(Regions)+1)
	for _, r := range Regions {
		names = append(names, r.Name)
	}
	return append(names, California)
}

func matchRegion(lower string) (string, bool) {
	for _, r := range Regions {
		if containsAny(lower, r.Keywords) {
			return r.Name, true
		}
	}
	return "", false
}
