package bypass

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resp(status int, header map[string]string, body string) Response {
	h := http.Header{}
	for k, v := range header {
		h.Set(k, v)
	}
	return Response{StatusCode: status, Header: h, Body: []byte(body)}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		res     Response
		want    string
		blocked bool
	}{
		{"plain page", resp(200, map[string]string{"Server": "nginx"}, "<html>ok</html>"), "", false},
		{"cloudflare header", resp(403, map[string]string{"Server": "cloudflare"}, "Access Denied"), "Cloudflare", true},
		{"cloudflare body", resp(503, nil, "<html>... cf-turnstile ...</html>"), "Cloudflare", true},
		{"cloudflare needs blocking status", resp(200, map[string]string{"Server": "cloudflare"}, "ok"), "", false},
		{"akamai header", resp(403, map[string]string{"Server": "AkamaiGHost"}, ""), "Akamai", true},
		{"akamai body", resp(403, nil, "Access Denied... Reference #123.456"), "Akamai", true},
		{"datadome header", resp(403, map[string]string{"X-DataDome": "protected"}, ""), "DataDome", true},
		{"perimeterx body", resp(403, nil, `<div id="px-captcha"></div>`), "PerimeterX", true},
		{"sucuri", resp(403, map[string]string{"X-Sucuri-ID": "1"}, ""), "Sucuri", true},
		{"ddg anomaly", resp(202, nil, `<div class="anomaly-modal">duckduckgo</div>`), "DuckDuckGo", true},
		{"captcha wall", resp(200, nil, `our systems have detected unusual traffic <form action="/captcha/">`), "Captcha", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, blocked := Detect(tt.res, DefaultDetectors())
			assert.Equal(t, tt.blocked, blocked)
			assert.Equal(t, tt.want, src)
		})
	}
}
