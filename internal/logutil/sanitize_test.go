package logutil

import "testing"

func TestSanitizeForLog(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"#g1\r\nTotal Groups: 1\r\njcli : ", "#g1 Total Groups: 1 jcli : "},
		{"tab\there", "tab here"},
		{"bell\x07ring", "bellring"},
		{"uid\nFAKE ENTRY", "uid FAKE ENTRY"},
	}
	for _, tc := range cases {
		if got := SanitizeForLog(tc.in); got != tc.want {
			t.Errorf("SanitizeForLog(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
	if got := Truncate("abc", 3); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestRedactPair(t *testing.T) {
	if got := RedactPair("password", "secret"); got != "password ********" {
		t.Errorf("got %q", got)
	}
	if got := RedactPair("gid", "g1"); got != "gid g1" {
		t.Errorf("got %q", got)
	}
}
