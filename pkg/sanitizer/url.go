package sanitizer

import (
	"net/url"
	"strings"
)

const wrappingChars = "\"'[] \t\r\n"

func HasHTTPScheme(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// StripWrapping removes quotes, brackets and whitespace around a list piece such as `["http://a/1.jpg"`.
func StripWrapping(s string) string {
	return strings.Trim(s, wrappingChars)
}

// SanitizeLinkURL cleans a banner link target. In-app routes ("/promo/42") are kept as-is,
// absolute links get a lowercase host and lose utm_* tracking parameters.
func SanitizeLinkURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "/") {
		return s
	}

	if !HasHTTPScheme(s) {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	q := u.Query()
	for k := range q {
		if strings.HasPrefix(strings.ToLower(k), "utm_") {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
