package models

// SupportedLanguages is the fixed set of languages offered by the language
// pair selectors. Analysis requests outside this set are rejected.
var SupportedLanguages = []string{
	"Arabic",
	"German",
	"English",
	"French",
	"Spanish",
	"Japanese",
}

// IsSupportedLanguage reports whether lang is in the fixed language set.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
