package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHasSameOriginProof(t *testing.T) {
	t.Parallel()

	build := func(target string, headers map[string]string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, target, nil)
		for key, value := range headers {
			req.Header.Set(key, value)
		}
		return req
	}

	tests := []struct {
		name   string
		req    *http.Request
		policy SchemePolicy
		want   bool
	}{
		{name: "matching origin", req: build("http://subtrack.test/app/subscriptions", map[string]string{"Origin": "http://subtrack.test"}), want: true},
		{name: "matching origin explicit port", req: build("http://subtrack.test:8080/app/profile", map[string]string{"Origin": "http://subtrack.test:8080"}), want: true},
		{name: "default port spelled out", req: build("http://subtrack.test/app/profile", map[string]string{"Origin": "http://subtrack.test:80"}), want: true},
		{name: "referer fallback", req: build("http://subtrack.test/logout", map[string]string{"Referer": "http://subtrack.test/app/dashboard?x=1"}), want: true},
		{name: "origin wins over referer", req: build("http://subtrack.test/logout", map[string]string{"Origin": "http://evil.test", "Referer": "http://subtrack.test/"}), want: false},
		{name: "foreign host", req: build("http://subtrack.test/app/profile", map[string]string{"Origin": "http://evil.test"}), want: false},
		{name: "port mismatch", req: build("http://subtrack.test:8080/app/profile", map[string]string{"Origin": "http://subtrack.test:9090"}), want: false},
		{name: "scheme mismatch", req: build("http://subtrack.test/app/profile", map[string]string{"Origin": "https://subtrack.test"}), want: false},
		{name: "null origin", req: build("http://subtrack.test/app/profile", map[string]string{"Origin": "null"}), want: false},
		{name: "no proof", req: build("http://subtrack.test/app/profile", nil), want: false},
		{
			name:   "untrusted forwarded proto ignored",
			req:    build("http://subtrack.test/app/profile", map[string]string{"Origin": "https://subtrack.test", "X-Forwarded-Proto": "https"}),
			policy: SchemePolicy{},
			want:   false,
		},
		{
			name:   "trusted forwarded proto used",
			req:    build("http://subtrack.test/app/profile", map[string]string{"Origin": "https://subtrack.test", "X-Forwarded-Proto": "https"}),
			policy: SchemePolicy{TrustForwardedProto: true},
			want:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasSameOriginProof(tc.req, tc.policy); got != tc.want {
				t.Fatalf("HasSameOriginProof() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "http://subtrack.test/", nil)
	if IsHTTPS(plain, SchemePolicy{}) {
		t.Fatal("plain request reported as https")
	}
	secure := httptest.NewRequest(http.MethodGet, "/", nil)
	secure.TLS = &tls.ConnectionState{}
	if !IsHTTPS(secure, SchemePolicy{}) {
		t.Fatal("tls request not reported as https")
	}
	if IsHTTPS(nil, SchemePolicy{}) {
		t.Fatal("nil request reported as https")
	}
}
