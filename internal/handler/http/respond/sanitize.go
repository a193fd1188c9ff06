package respond

import "regexp"

var (
	// Credentials embedded in URLs (user:password@host).
	urlCredentialsPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)

	// Bearer tokens and api_key query parameters occasionally surface in
	// upstream error strings.
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._\-]+`)
	apiKeyPattern = regexp.MustCompile(`(?i)(api_key|apikey|token)=[^&\s]+`)
)

// SanitizeError masks credentials before an error message is logged.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = urlCredentialsPattern.ReplaceAllString(msg, "://$1:****@")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = apiKeyPattern.ReplaceAllString(msg, "$1=****")
	return msg
}
