// Package netutil holds the stateless network helpers shared by the peer and
// lobby layers: interface discovery, broadcast derivation, hostname
// resolution, port validation and id generation.
package netutil

import (
	"net"
	"strings"

	"github.com/google/uuid"
)

// Family selects an address family for enumeration helpers.
type Family int

const (
	IPv4 Family = iota
	IPv6
)

// MinPort and MaxPort bound the ports accepted by ValidPort. Ports at or
// below 1024 are reserved for well-known services.
const (
	MinPort = 1024
	MaxPort = 65535
)

// ValidPort reports whether p falls in (MinPort, MaxPort].
func ValidPort(p int) bool {
	return p > MinPort && p <= MaxPort
}

// NewID returns a random unique identifier.
func NewID() string {
	return uuid.NewString()
}

func matchesFamily(ip net.IP, family Family) bool {
	if ip == nil {
		return false
	}
	if family == IPv4 {
		return ip.To4() != nil
	}
	return ip.To4() == nil && ip.To16() != nil
}

// LocalAddresses returns the unicast addresses of the requested family
// across all active interfaces.
func LocalAddresses(family Family) ([]net.IP, error) {
	ifaces, err := ActiveInterfaces(family)
	if err != nil {
		return nil, err
	}
	var out []net.IP
	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			return nil, &InterfaceError{Op: "list addresses of " + ifi.Name, Err: err}
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if matchesFamily(ipnet.IP, family) {
				out = append(out, ipnet.IP)
			}
		}
	}
	return out, nil
}

// ActiveInterfaces returns the interfaces that are up, not loopback, and
// carry at least one unicast address of the requested family.
func ActiveInterfaces(family Family) ([]net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, &InterfaceError{Op: "enumerate interfaces", Err: err}
	}
	var out []net.Interface
	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifi.Addrs()
		if err != nil {
			return nil, &InterfaceError{Op: "list addresses of " + ifi.Name, Err: err}
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if matchesFamily(ipnet.IP, family) {
				out = append(out, ifi)
				break
			}
		}
	}
	return out, nil
}

// ResolveHost resolves a hostname to its address list.
func ResolveHost(host string) ([]net.IP, error) {
	if strings.TrimSpace(host) == "" {
		return nil, ErrHostEmpty
	}
	return net.LookupIP(host)
}

// BroadcastAddress derives the IPv4 directed broadcast address for ip by
// locating the interface that owns it and applying that interface's subnet
// mask. Returns ErrNoMatchingInterface when no interface carries ip and
// ErrMaskLengthMismatch when the mask cannot be applied.
func BroadcastAddress(ip net.IP) (net.IP, error) {
	v4 := ip.To4()
	if v4 == nil {
		return nil, ErrNotIPv4
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, &InterfaceError{Op: "enumerate interfaces", Err: err}
	}
	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			return nil, &InterfaceError{Op: "list addresses of " + ifi.Name, Err: err}
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ifV4 := ipnet.IP.To4()
			if ifV4 == nil || !ifV4.Equal(v4) {
				continue
			}
			mask := ipnet.Mask
			if len(mask) == net.IPv6len {
				mask = mask[net.IPv6len-net.IPv4len:]
			}
			if len(mask) != len(v4) {
				return nil, ErrMaskLengthMismatch
			}
			bcast := make(net.IP, len(v4))
			for i := range v4 {
				bcast[i] = v4[i] | ^mask[i]
			}
			return bcast, nil
		}
	}
	return nil, ErrNoMatchingInterface
}
