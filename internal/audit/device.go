package audit

import (
	"fmt"

	"github.com/mssola/useragent"
)

// SummarizeUserAgent reduces a raw User-Agent header to a short
// browser-and-platform description. Raw UA strings are high-entropy enough
// to fingerprint a device, so only the summary is persisted.
func SummarizeUserAgent(raw string) string {
	if raw == "" {
		return "unknown"
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		if ua.Bot() {
			return "bot"
		}
		return "unknown"
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}
