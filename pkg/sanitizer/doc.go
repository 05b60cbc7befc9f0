// Package sanitizer normalizes loosely typed values coming from the upstream content API
// before they reach storage or the UI.
//
// Functions never return errors. Bad input degrades to an empty string or an empty slice,
// so callers can render the result directly.
//
// Normalization includes:
//   - Image URLs: accept a string, a string slice, a JSON-encoded array, JSON arrays split
//     across slice slots and comma-joined lists, and return a clean ordered URL list
//   - Link URLs: keep in-app routes, lowercase hosts and drop utm_* parameters
//   - Text: collapse whitespace, trim, remove control characters
//   - Numbers: clamp priorities to a valid range
package sanitizer
