package mcpserver

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockedAddr(t *testing.T) {
	tests := []struct {
		addr    string
		blocked bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"224.0.0.1", true},
		{"0.0.0.0", true},
		{"::1", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"::ffff:127.0.0.1", true},
		{"8.8.8.8", false},
		{"2606:4700:4700::1111", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.blocked, blockedAddr(netip.MustParseAddr(tt.addr)))
		})
	}
}

func TestAddrGuardCheck(t *testing.T) {
	g := addrGuard{resolver: net.DefaultResolver, blocked: blockedAddr}

	_, err := g.check(context.Background(), "127.0.0.1")
	assert.ErrorContains(t, err, "blocked request")

	allowAll := addrGuard{resolver: net.DefaultResolver, blocked: func(netip.Addr) bool { return false }}
	addrs, err := allowAll.check(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("127.0.0.1")}, addrs)
}

func TestAddrGuardClient(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("openapi: 3.1.0\n"))
	}))
	defer target.Close()

	t.Run("direct", func(t *testing.T) {
		client := addrGuard{resolver: net.DefaultResolver, blocked: blockedAddr}.client()
		_, err := client.Get(target.URL)
		assert.ErrorContains(t, err, "blocked request")
	})

	t.Run("allowed", func(t *testing.T) {
		client := addrGuard{resolver: net.DefaultResolver, blocked: func(netip.Addr) bool { return false }}.client()
		resp, err := client.Get(target.URL)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("redirect limit", func(t *testing.T) {
		var loop *httptest.Server
		loop = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, loop.URL+"/again", http.StatusFound)
		}))
		defer loop.Close()

		client := addrGuard{resolver: net.DefaultResolver, blocked: func(netip.Addr) bool { return false }}.client()
		_, err := client.Get(loop.URL)
		assert.ErrorContains(t, err, "stopped after 10 redirects")
	})
}

func TestSpecHTTPClient(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = false })
	client := specHTTPClient()
	require.NotNil(t, client)
	assert.NotNil(t, client.CheckRedirect)

	withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = true })
	assert.Nil(t, specHTTPClient())
}
