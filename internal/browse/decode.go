package browse

import (
	"net/url"

	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// DecodeSelection builds a Selection from URL query parameters. Unknown keys
// are ignored and the result is sanitized, so a stale or hand-edited URL
// degrades to defaults instead of failing.
func DecodeSelection(query url.Values) (Selection, error) {
	sel := DefaultSelection()
	if err := decoder.Decode(&sel, query); err != nil {
		return DefaultSelection(), err
	}
	return sel.Sanitize(), nil
}
