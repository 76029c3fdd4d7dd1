package logging

import (
	"regexp"
)

var (
	// Password in a DSN or URL userinfo. Applied before the query pattern.
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)

	// Credential-like query parameters in source URLs.
	secretQueryPattern = regexp.MustCompile(`(?i)([?&](?:token|key|api_key|apikey|secret|password|sig|signature)=)[^&\s"]+`)
)

// SanitizeError returns err's message with DSN passwords and credential
// query parameters masked. Use it for errors that may echo DATABASE_URL
// or a source URL.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = secretQueryPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
