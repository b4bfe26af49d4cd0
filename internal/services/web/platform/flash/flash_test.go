package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/subtrack/internal/services/web/platform/requestmeta"
)

func TestWriteThenReadAndClear(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Write(rr, httptest.NewRequest(http.MethodPost, "/app/profile", nil), Success("web.profile.saved"), requestmeta.SchemePolicy{})
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/app/profile", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	notice, ok := ReadAndClear(rr, req, requestmeta.SchemePolicy{})
	if !ok {
		t.Fatal("expected notice")
	}
	if notice.Kind != KindSuccess || notice.Key != "web.profile.saved" {
		t.Fatalf("notice = %+v", notice)
	}
	cleared := rr.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected clearing cookie, got %+v", cleared)
	}
}

func TestInvalidNoticesAreIgnored(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Write(rr, httptest.NewRequest(http.MethodPost, "/", nil), Notice{Kind: "party", Key: "x"}, requestmeta.SchemePolicy{})
	if got := len(rr.Result().Cookies()); got != 0 {
		t.Fatalf("cookies = %d, want 0", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-base64!"})
	if _, ok := ReadAndClear(httptest.NewRecorder(), req, requestmeta.SchemePolicy{}); ok {
		t.Fatal("expected garbage cookie to be ignored")
	}
	if _, ok := ReadAndClear(nil, nil, requestmeta.SchemePolicy{}); ok {
		t.Fatal("expected nil request to be ignored")
	}
}
