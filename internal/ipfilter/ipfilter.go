//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package ipfilter gives cmd/coordinator's "-allow" flag a concrete
// coordinator.AllowFunc to wire into. It is not part of the ITS-MPC
// protocol: the protocol only consumes an AllowFunc, it does not define
// how one is built.
package ipfilter

import (
	"fmt"
	"net"

	"github.com/markkurossi/itsmpc/coordinator"
)

// FromCIDRs builds an AllowFunc that permits a peer when its IP falls
// inside any of the given CIDR blocks. An empty cidrs list allows every
// peer, matching AllowFunc's own nil-means-allow-all convention.
func FromCIDRs(cidrs []string) (coordinator.AllowFunc, error) {
	if len(cidrs) == 0 {
		return nil, nil
	}

	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			return nil, fmt.Errorf("ipfilter: %q: %w", c, err)
		}
		nets = append(nets, n)
	}

	return func(addr net.Addr) bool {
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			return false
		}
		ip := net.ParseIP(host)
		if ip == nil {
			return false
		}
		for _, n := range nets {
			if n.Contains(ip) {
				return true
			}
		}
		return false
	}, nil
}
