package logger

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// Detail keys whose values never reach the log.
var secretKeys = map[string]bool{
	"password":         true,
	"mongodb_password": true,
	"secret":           true,
	"authorization":    true,
	"cookie":           true,
	"hmac_key":         true,
}

// mongoCredentials matches the user:password@ part of a MongoDB connection
// string. The password cannot hold a raw '@', so the match stops at the host.
var mongoCredentials = regexp.MustCompile(`(?i)(mongodb(?:\+srv)?://[^:/@\s]+:)[^@\s]*@`)

// RedactURI hides the password of every MongoDB connection string in s. It
// accepts a bare URI or free text such as a driver error message.
func RedactURI(s string) string {
	return mongoCredentials.ReplaceAllString(s, "${1}xxxxx@")
}

func scrub(s string) string {
	return RedactURI(s)
}

func scrubDetails(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return nil
	}
	out := make(map[string]interface{}, len(details))
	for k, v := range details {
		if secretKeys[strings.ToLower(k)] {
			out[k] = redacted
			continue
		}
		out[k] = scrubValue(v)
	}
	return out
}

func scrubValue(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return scrub(t)
	case error:
		return scrub(t.Error())
	case map[string]interface{}:
		return scrubDetails(t)
	default:
		return v
	}
}
