package negotiate

import (
	"slices"

	"golang.org/x/text/language"
)

// BestLanguage selects the offered language that best matches weighted language preferences.
// Preferences with zero factor are ignored.
func BestLanguage(prefs []Weight[language.Tag], offers ...language.Tag) (language.Tag, bool) {
	if len(offers) == 0 {
		return language.Und, false
	}

	sorted := slices.Clone(prefs)
	Sort(sorted)

	tags := make([]language.Tag, 0, len(sorted))
	for _, p := range sorted {
		if p.Factor() > 0 {
			tags = append(tags, p.Value())
		}
	}
	if len(tags) == 0 {
		return language.Und, false
	}

	_, idx, conf := language.NewMatcher(offers).Match(tags...)
	if conf == language.No {
		return language.Und, false
	}
	return offers[idx], true
}
