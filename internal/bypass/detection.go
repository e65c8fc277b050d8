// Package bypass recognises bot-protection challenge pages so that a blocked
// response is treated as a failure rather than parsed as real content.
package bypass

import (
	"bytes"
	"net/http"
	"strings"
)

// Response is the part of an HTTP response the detectors look at.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Detector reports whether res is a challenge page and names its source.
type Detector func(res Response) (source string, blocked bool)

// DefaultDetectors returns the standard list of bot protection detectors.
func DefaultDetectors() []Detector {
	return []Detector{
		detectCloudflare,
		detectAkamai,
		detectDataDome,
		detectPerimeterX,
		detectSucuri,
		detectSearchChallenge,
	}
}

// Detect runs res through detectors and returns the first match.
func Detect(res Response, detectors []Detector) (string, bool) {
	for _, d := range detectors {
		if src, ok := d(res); ok {
			return src, true
		}
	}
	return "", false
}

func server(res Response) string {
	return strings.ToLower(res.Header.Get("Server"))
}

func bodyHasAny(body []byte, sigs ...string) bool {
	for _, s := range sigs {
		if bytes.Contains(body, []byte(s)) {
			return true
		}
	}
	return false
}

func detectCloudflare(res Response) (string, bool) {
	if res.StatusCode != http.StatusForbidden && res.StatusCode != http.StatusServiceUnavailable {
		return "", false
	}
	if strings.Contains(server(res), "cloudflare") ||
		bodyHasAny(res.Body, "cf-browser-verification", "cloudflare-nginx", "cf-turnstile", "Attention Required! | Cloudflare") {
		return "Cloudflare", true
	}
	return "", false
}

func detectAkamai(res Response) (string, bool) {
	if res.StatusCode != http.StatusForbidden {
		return "", false
	}
	if strings.Contains(server(res), "akamai") {
		return "Akamai", true
	}
	if bodyHasAny(res.Body, "Reference #") && bodyHasAny(res.Body, "Access Denied") {
		return "Akamai", true
	}
	return "", false
}

func detectDataDome(res Response) (string, bool) {
	if res.StatusCode != http.StatusForbidden {
		return "", false
	}
	if strings.Contains(server(res), "datadome") ||
		res.Header.Get("X-DataDome") != "" || res.Header.Get("X-DataDome-Response") != "" ||
		bodyHasAny(res.Body, "geo.captcha-delivery.com", "datadome") {
		return "DataDome", true
	}
	return "", false
}

func detectPerimeterX(res Response) (string, bool) {
	if res.StatusCode != http.StatusForbidden {
		return "", false
	}
	if res.Header.Get("X-Px-Captcha") != "" ||
		bodyHasAny(res.Body, "client.perimeterx.net", "px-captcha", "_pxBlock") {
		return "PerimeterX", true
	}
	return "", false
}

func detectSucuri(res Response) (string, bool) {
	if res.StatusCode < 400 {
		return "", false
	}
	if res.Header.Get("X-Sucuri-ID") != "" || bodyHasAny(res.Body, "Sucuri WebSite Firewall") {
		return "Sucuri", true
	}
	return "", false
}

// detectSearchChallenge catches the soft blocks search backends serve with a
// success status: DuckDuckGo's anomaly modal and Bing/Google captcha walls.
func detectSearchChallenge(res Response) (string, bool) {
	switch {
	case bodyHasAny(res.Body, "anomaly-modal", "challenge-form") && bodyHasAny(res.Body, "duckduckgo"):
		return "DuckDuckGo", true
	case bodyHasAny(res.Body, "/captcha/", "g-recaptcha") && bodyHasAny(res.Body, "unusual traffic"):
		return "Captcha", true
	}
	return "", false
}
