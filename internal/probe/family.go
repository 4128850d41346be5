package probe

import (
	"net/netip"
	"strings"
)

// Family is the address family a single probe attempt is pinned to.
// There is no fallback: a failure on the chosen family is final.
type Family int

const (
	IPv4 Family = iota
	IPv6
)

func (f Family) String() string {
	if f == IPv6 {
		return "ipv6"
	}
	return "ipv4"
}

// FamilyFor picks the family for host: IPv6 for IPv6 literals, IPv4 for
// IPv4 literals and for domain names.
func FamilyFor(host string) Family {
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	addr, err := netip.ParseAddr(host)
	if err == nil && addr.Is6() {
		return IPv6
	}
	return IPv4
}

// Network returns the family-specific variant of base ("tcp" or "udp").
func (f Family) Network(base string) string {
	if f == IPv6 {
		return base + "6"
	}
	return base + "4"
}
