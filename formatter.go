package html2md

import (
	"strings"
)

// FormatFailures formats document failures for display, one per line,
// in input order. Application errors show their message; other errors
// show their full text.
func FormatFailures(failures []*DocumentFailure) string {
	if len(failures) == 0 {
		return ""
	}

	lines := make([]string, 0, len(failures))
	for _, f := range failures {
		msg := f.Err.Error()
		if ErrorCode(f.Err) != EINTERNAL {
			msg = ErrorMessage(f.Err)
		}
		lines = append(lines, "failed "+f.SourceURL+": "+msg)
	}

	return strings.Join(lines, "\n")
}
