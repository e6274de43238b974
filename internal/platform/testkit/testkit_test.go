package testkit

import "testing"

var clock = func() string { return "real" }

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
}

func TestMustContain(t *testing.T) {
	MustContain(t, `{"level":"info","user":"jdoe"}`, `"user":"jdoe"`)
}

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &clock, func() string { return "fake" })
		if clock() != "fake" {
			t.Fatalf("swap not applied")
		}
	})
	if clock() != "real" {
		t.Fatalf("swap not restored")
	}
}
