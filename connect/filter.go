package connect

import (
	"fmt"
	"net/url"
	"strings"
)

// buildEqualsFilter renders the server's `field eq "value"` filter
// grammar. Backslashes and embedded quotes in the value are escaped so
// the filter string stays well-formed.
func buildEqualsFilter(field, value string) string {
	return fmt.Sprintf(`%s eq "%s"`, field, escapeFilterValue(value))
}

func escapeFilterValue(value string) string {
	replaced := strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(replaced, `"`, `\"`)
}

func escapePathSegment(segment string) string {
	return strings.ReplaceAll(url.PathEscape(segment), "+", "%20")
}
