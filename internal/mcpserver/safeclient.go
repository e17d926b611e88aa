package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/erraggy/oasexplorer/loader"
)

// maxRedirects bounds the redirects followed when fetching a spec URL.
const maxRedirects = 10

// blockedAddr reports whether a spec fetch must not reach addr.
func blockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return !addr.IsValid() || addr.IsPrivate() || addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsMulticast() || addr.IsUnspecified()
}

// addrGuard resolves hosts and refuses any that resolve to a blocked address.
type addrGuard struct {
	resolver *net.Resolver
	blocked  func(netip.Addr) bool
}

// check returns the resolved addresses of host, or an error naming the first
// blocked one.
func (g addrGuard) check(ctx context.Context, host string) ([]netip.Addr, error) {
	addrs, err := g.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses for host %s", host)
	}
	for i, a := range addrs {
		addrs[i] = a.Unmap()
		if g.blocked(addrs[i]) {
			return nil, fmt.Errorf("blocked request to non-public address: %s (%s)", host, addrs[i])
		}
	}
	return addrs, nil
}

// client returns an HTTP client that only connects to addresses the guard
// accepts, including after redirects.
func (g addrGuard) client() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	return &http.Client{
		Timeout: loader.DefaultTimeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, hostport string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(hostport)
				if err != nil {
					return nil, err
				}
				addrs, err := g.check(ctx, host)
				if err != nil {
					return nil, err
				}
				// Dial the checked address so a second lookup cannot swap it.
				return dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0].String(), port))
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			_, err := g.check(req.Context(), req.URL.Hostname())
			return err
		},
	}
}

// specHTTPClient returns the client used for URL inputs; nil means the
// loader's default client.
func specHTTPClient() *http.Client {
	if cfg.AllowPrivateIPs {
		return nil
	}
	return addrGuard{resolver: net.DefaultResolver, blocked: blockedAddr}.client()
}
