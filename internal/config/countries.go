package config

import "strings"

// countryCodes maps the country names the mobile clients still send to
// ISO 3166-1 alpha-2 codes. Config data, not logic; new markets get a
// row here.
var countryCodes = map[string]string{
	"united arab emirates": "AE",
	"saudi arabia":         "SA",
	"qatar":                "QA",
	"kuwait":               "KW",
	"bahrain":              "BH",
	"oman":                 "OM",
	"egypt":                "EG",
	"jordan":               "JO",
	"turkey":               "TR",
	"kazakhstan":           "KZ",
}

// CountryCode normalizes a country query parameter: a recognized name
// becomes its code, a two-letter value is assumed to already be a code,
// anything else is returned uppercased as-is.
func CountryCode(raw string) string {
	if raw == "" {
		return ""
	}
	if code, ok := countryCodes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}
