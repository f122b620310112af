package creds

import (
	"strings"
	"testing"
)

func TestDigestIsStable(t *testing.T) {
	first := Digest("hunter2")
	second := Digest("hunter2")
	if first != second {
		t.Fatalf("digest is not deterministic: %s vs %s", first, second)
	}
}

func TestDigestKnownValue(t *testing.T) {
	// sha256("hunter2"), lowercase hex.
	want := "f52fbd32b2b3b86ff88ef6c490628285f482af15ddcb29541f94bcf526a3f6c7"
	if got := Digest("hunter2"); got != want {
		t.Fatalf("Digest(hunter2)=%s, want %s", got, want)
	}
}

func TestDigestDistinguishesSecrets(t *testing.T) {
	secrets := []string{"", "a", "hunter2", "hunter2 ", "Hunter2", "correct horse battery staple"}
	seen := make(map[string]string, len(secrets))
	for _, s := range secrets {
		d := Digest(s)
		if len(d) != 64 {
			t.Fatalf("digest of %q has length %d, want 64", s, len(d))
		}
		if d != strings.ToLower(d) {
			t.Fatalf("digest of %q is not lowercase: %s", s, d)
		}
		if prev, ok := seen[d]; ok {
			t.Fatalf("digest collision between %q and %q", prev, s)
		}
		seen[d] = s
	}
}
