package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/":                         "/",
		"/metrics":                  "/metrics",
		"/login":                    "/login",
		"/product-search":           "/product-search",
		"/product-search?name=milk": "/product-search",
		"/session":                  "/session",
		"/assets/logo.png":          "/other",
		"/v1/does-not-exist":        "/other",
		"/private?verbose=1":        "/private",
		"/healthz":                  "/healthz",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
