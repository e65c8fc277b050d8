// Package fingerprint builds HTTP transports whose TLS ClientHello mimics a
// real browser, so search backends and business sites see browser traffic.
package fingerprint

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	utls "github.com/refraction-networking/utls"
)

// Profile names a TLS fingerprint.
type Profile string

const (
	ProfileChrome  Profile = "chrome"
	ProfileFirefox Profile = "firefox"
	ProfileSafari  Profile = "safari"
	ProfileGo      Profile = "go"     // standard crypto/tls
	ProfileRandom  Profile = "random" // randomized uTLS hello
)

var helloIDs = map[Profile]utls.ClientHelloID{
	ProfileChrome:  utls.HelloChrome_Auto,
	ProfileFirefox: utls.HelloFirefox_Auto,
	ProfileSafari:  utls.HelloIOS_Auto,
	ProfileRandom:  utls.HelloRandomizedNoALPN,
}

// ParseProfile maps a config string to a Profile. Empty means chrome.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return ProfileChrome, nil
	}
	if p == ProfileGo {
		return p, nil
	}
	if _, ok := helloIDs[p]; !ok {
		return "", fmt.Errorf("fingerprint: unknown profile %q", s)
	}
	return p, nil
}

// Options tune the transport.
type Options struct {
	// Proxy selects a proxy per request; nil uses the environment.
	Proxy func(*http.Request) (*url.URL, error)
	// InsecureSkipVerify disables certificate checks (tests only).
	InsecureSkipVerify bool
}

// Transport returns a RoundTripper using the given profile. ProfileGo yields a
// plain clone of http.DefaultTransport; the others perform a uTLS handshake
// restricted to HTTP/1.1 ALPN, since http.Transport cannot speak h2 over a
// custom TLS dialer.
func Transport(p Profile, opts Options) (http.RoundTripper, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != nil {
		transport.Proxy = opts.Proxy
	}

	if p == ProfileGo {
		if opts.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // test-only switch
		}
		return transport, nil
	}

	id, ok := helloIDs[p]
	if !ok {
		return nil, fmt.Errorf("fingerprint: unknown profile %q", p)
	}

	dial := transport.DialContext
	transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		raw, err := dial(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}

		conn, err := handshake(ctx, raw, id, &utls.Config{
			ServerName:         host,
			InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec // test-only switch
		})
		if err != nil {
			_ = raw.Close()
			return nil, fmt.Errorf("fingerprint: %s handshake with %s: %w", p, host, err)
		}
		return conn, nil
	}
	return transport, nil
}

func handshake(ctx context.Context, raw net.Conn, id utls.ClientHelloID, cfg *utls.Config) (*utls.UConn, error) {
	spec, err := utls.UTLSIdToSpec(id)
	if err != nil {
		// randomized hellos have no static spec and already omit ALPN
		conn := utls.UClient(raw, cfg, id)
		return conn, conn.HandshakeContext(ctx)
	}

	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
		}
	}

	conn := utls.UClient(raw, cfg, utls.HelloCustom)
	if err := conn.ApplyPreset(&spec); err != nil {
		return nil, err
	}
	return conn, conn.HandshakeContext(ctx)
}
