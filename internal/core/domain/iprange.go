package domain

import (
	"net/netip"
	"strings"
)

// ParseIPRange accepts a single IPv4/IPv6 address or a CIDR range.
func ParseIPRange(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, ErrInvalidIP
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, ErrInvalidIP
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// IPInRange reports whether ip falls inside rng (CIDR or exact address).
// Malformed input on either side yields false.
func IPInRange(ip, rng string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	p, err := ParseIPRange(rng)
	if err != nil {
		return false
	}
	return p.Contains(addr.Unmap())
}

// WouldBlockCurrentSession reports whether deleting the whitelist entry
// entry would cut off an admin connected from currentIP.
func WouldBlockCurrentSession(entry, currentIP string) bool {
	if currentIP == "" {
		return false
	}
	return IPInRange(currentIP, entry)
}
