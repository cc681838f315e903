package server

import (
	"net/http"
	"strconv"
	"strings"
)

// WantsJSON reports whether the request's Accept negotiation prefers JSON
// over HTML. A missing Accept header counts as a document client; a wildcard
// accept ties in JSON's favor so API clients without an explicit type still
// get structured errors.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}
	jsonQ := acceptQuality(accept, "application", "json")
	htmlQ := acceptQuality(accept, "text", "html")
	return jsonQ > 0 && jsonQ >= htmlQ
}

// acceptQuality returns the quality factor the Accept header assigns to the
// given media type, considering wildcard entries. More specific entries win.
func acceptQuality(accept, mainType, subType string) float64 {
	best := 0.0
	bestSpecificity := -1

	for _, part := range strings.Split(accept, ",") {
		mediaType, q := parseAcceptPart(part)
		if mediaType == "" {
			continue
		}

		main, sub, ok := strings.Cut(mediaType, "/")
		if !ok {
			continue
		}

		specificity := -1
		switch {
		case main == mainType && sub == subType:
			specificity = 2
		case main == mainType && sub == "*":
			specificity = 1
		case main == "*" && sub == "*":
			specificity = 0
		}
		if specificity > bestSpecificity {
			bestSpecificity = specificity
			best = q
		}
	}
	return best
}

func parseAcceptPart(part string) (string, float64) {
	fields := strings.Split(part, ";")
	mediaType := strings.ToLower(strings.TrimSpace(fields[0]))
	q := 1.0
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if v, ok := strings.CutPrefix(f, "q="); ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				q = parsed
			}
		}
	}
	return mediaType, q
}
