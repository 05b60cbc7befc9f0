package sanitizer

import (
	"encoding/json"
	"os"
	"strings"

	"storefront/pkg/logger"
)

const imageURLsComponent = "imageurls"

// FragmentStrategy tries to recover URLs from a fragment that is not valid JSON.
// items is the whole input sequence and index the fragment position, so a strategy
// may look ahead. consumed reports how many following items were folded into the
// fragment and must be skipped by the caller.
type FragmentStrategy func(items []any, index int, fragment string) (urls []string, consumed int, ok bool)

type ImageURLNormalizer struct {
	log        *logger.Logger
	strategies []FragmentStrategy
}

func NewImageURLNormalizer(log *logger.Logger) *ImageURLNormalizer {
	return &ImageURLNormalizer{
		log: log,
		strategies: []FragmentStrategy{
			reassembleSplitArray,
			splitCommaList,
			literalURL,
		},
	}
}

var defaultImageURLNormalizer = NewImageURLNormalizer(logger.New(logger.Config{
	Level:   logger.WARN,
	Output:  os.Stderr,
	Service: imageURLsComponent,
}))

// ParseImageURLs normalizes an upstream imageUrls value with the package default normalizer.
func ParseImageURLs(input any) []string {
	return defaultImageURLNormalizer.Normalize(input)
}

// Normalize turns an absent value, a string or a sequence of strings into a list of
// non-blank URL strings. It never fails: on any panic the input is logged and an
// empty list is returned.
func (n *ImageURLNormalizer) Normalize(input any) (urls []string) {
	defer func() {
		if r := recover(); r != nil {
			if n.log != nil {
				n.log.Warn("Failed to parse image URLs",
					"component", imageURLsComponent,
					"input", input,
					"error", r,
				)
			}
			urls = []string{}
		}
	}()

	switch v := input.(type) {
	case nil:
		return []string{}
	case string:
		return n.fromString(v)
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return n.fromSequence(items)
	case []any:
		return n.fromSequence(v)
	default:
		return []string{}
	}
}

func (n *ImageURLNormalizer) fromSequence(items []any) []string {
	result := []string{}

	for i := 0; i < len(items); i++ {
		s, ok := items[i].(string)
		if !ok || IsBlank(s) {
			continue
		}
		fragment := strings.TrimSpace(s)

		var parsed any
		if err := json.Unmarshal([]byte(fragment), &parsed); err == nil {
			switch p := parsed.(type) {
			case []any:
				result = append(result, nonBlankStrings(p)...)
			case string:
				if !IsBlank(p) {
					result = append(result, strings.TrimSpace(p))
				}
			}
			continue
		}

		for _, strategy := range n.strategies {
			urls, consumed, ok := strategy(items, i, fragment)
			if !ok {
				continue
			}
			result = append(result, urls...)
			i += consumed
			break
		}
	}

	return nonBlank(result)
}

func (n *ImageURLNormalizer) fromString(s string) []string {
	s = strings.TrimSpace(s)

	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		if p, ok := parsed.([]any); ok {
			return nonBlankStrings(p)
		}
	} else if strings.Contains(s, ",") {
		return schemeOnlyPieces(s)
	}

	if HasHTTPScheme(s) {
		return []string{s}
	}
	return []string{}
}

// reassembleSplitArray handles a JSON array that an upstream serializer broke across
// several sequence slots, e.g. ["http://a/1.jpg" followed by "http://a/2.jpg"].
// The scan is positional: it joins forward from index until a slot closes the array.
func reassembleSplitArray(items []any, index int, fragment string) ([]string, int, bool) {
	if !strings.HasPrefix(fragment, `["`) && !strings.HasPrefix(fragment, `['`) {
		return nil, 0, false
	}

	var b strings.Builder
	b.WriteString(fragment)
	consumed := 0
	for j := index + 1; j < len(items); j++ {
		next, ok := items[j].(string)
		if !ok {
			break
		}
		b.WriteString(",")
		b.WriteString(next)
		consumed++
		trimmed := strings.TrimSpace(next)
		if strings.HasSuffix(trimmed, `"]`) || strings.HasSuffix(trimmed, `']`) {
			break
		}
	}

	var parsed []any
	if err := json.Unmarshal([]byte(b.String()), &parsed); err == nil {
		return nonBlankStrings(parsed), consumed, true
	}

	return schemeOnlyPieces(fragment), 0, true
}

func splitCommaList(_ []any, _ int, fragment string) ([]string, int, bool) {
	if !strings.Contains(fragment, ",") {
		return nil, 0, false
	}

	var urls []string
	for _, piece := range strings.Split(fragment, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			urls = append(urls, piece)
		}
	}
	return urls, 0, true
}

func literalURL(_ []any, _ int, fragment string) ([]string, int, bool) {
	return []string{fragment}, 0, true
}

func schemeOnlyPieces(s string) []string {
	urls := []string{}
	for _, piece := range strings.Split(s, ",") {
		piece = StripWrapping(piece)
		if piece != "" && HasHTTPScheme(piece) {
			urls = append(urls, piece)
		}
	}
	return urls
}

func nonBlankStrings(values []any) []string {
	out := []string{}
	for _, v := range values {
		if s, ok := v.(string); ok && !IsBlank(s) {
			out = append(out, s)
		}
	}
	return out
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !IsBlank(v) {
			out = append(out, v)
		}
	}
	return out
}
