// Package privacy holds the one-way redaction transforms applied before
// sensitive values reach a response body or an audit row.
package privacy

import (
	"fmt"
	"net"
)

// AnonymizeIP truncates an address so an audit row records where a read came
// from without identifying the exact host. IPv4 keeps the /24 network (last
// octet zeroed, "192.168.1.47" -> "192.168.1.0"); IPv6 keeps the /48 prefix.
// Unparseable input maps to "invalid", empty input to "unknown"; the true
// address is never stored.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	// IPv4-mapped IPv6 counts as IPv4.
	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	// /48 prefix = first 6 of the 16 bytes.
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}
