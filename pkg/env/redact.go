package env

import (
	"net/url"
	"strings"
)

// secretKeyMarkers flag a variable name as likely holding a credential.
var secretKeyMarkers = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"PASSWD",
	"API_KEY",
	"APIKEY",
	"ACCESS_KEY",
	"PRIVATE_KEY",
	"CREDENTIAL",
}

// RedactValue masks a secret value, showing only the first 4 and last 4 characters.
func RedactValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// RedactURL masks credentials embedded in a URL string.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.User != nil {
		password, hasPassword := u.User.Password()
		if hasPassword {
			u.User = url.UserPassword(u.User.Username(), RedactValue(password))
		}
	}
	return u.String()
}

// IsSecretKey reports whether a variable name looks like it holds a credential.
func IsSecretKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range secretKeyMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// RedactPairs masks the values of secret-looking keys in a list of
// KEY=value pairs. Pairs without a separator pass through unchanged.
func RedactPairs(pairs []string) []string {
	result := make([]string, len(pairs))
	for i, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if found && IsSecretKey(key) {
			result[i] = key + "=" + RedactValue(value)
			continue
		}
		result[i] = pair
	}
	return result
}

// SecretValues collects the non-empty values of secret-looking keys so
// they can be scrubbed from logs.
func SecretValues(vars map[string]string) []string {
	var values []string
	for key, value := range vars {
		if value != "" && IsSecretKey(key) {
			values = append(values, value)
		}
	}
	return values
}
