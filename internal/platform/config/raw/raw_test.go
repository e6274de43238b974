package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LOG_FORMAT", " json ")
	c := New().Prefix("LOG_")
	if got := c.Get("FORMAT", "console"); got != "json" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("LEVEL", "debug"); got != "debug" {
		t.Fatalf("Get default = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("LOG_")
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"YES", false, true},
		{"1", false, true},
		{"nah", true, false},
	}
	for _, tc := range cases {
		t.Setenv("LOG_CALLER", tc.val)
		if got := c.GetBool("CALLER", tc.def); got != tc.want {
			t.Fatalf("GetBool(%q, %v) = %v", tc.val, tc.def, got)
		}
	}
}

func TestGetInt(t *testing.T) {
	c := New()
	t.Setenv("N_OK", "12")
	t.Setenv("N_NEG", "-3")
	t.Setenv("N_BAD", "1x")
	if got := c.GetInt("N_OK", 0); got != 12 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := c.GetInt("N_NEG", 5); got != 5 {
		t.Fatalf("GetInt neg = %d", got)
	}
	if got := c.GetInt("N_BAD", 5); got != 5 {
		t.Fatalf("GetInt bad = %d", got)
	}
}
