package cache

import (
	"testing"
	"time"
)

func TestGetReturnsValueWithinTTL(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("accra", "sunny")

	got, ok := c.Get("accra")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "sunny" {
		t.Fatalf("expected %q, got %q", "sunny", got)
	}
}

func TestGetEvictsStaleEntry(t *testing.T) {
	c := New[string](20 * time.Millisecond)
	c.Set("accra", "sunny")

	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("accra"); ok {
		t.Fatal("expected stale entry to be a miss")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("expected stale entry to be evicted, still have %d entries", n)
	}
}

func TestSetOverwritesAndRestartsTTL(t *testing.T) {
	c := New[string](50 * time.Millisecond)
	c.Set("accra", "sunny")

	time.Sleep(30 * time.Millisecond)
	c.Set("accra", "cloudy")
	time.Sleep(30 * time.Millisecond)

	// 60ms after the first Set but only 30ms after the overwrite.
	got, ok := c.Get("accra")
	if !ok {
		t.Fatal("expected overwrite to restart the TTL window")
	}
	if got != "cloudy" {
		t.Fatalf("expected %q, got %q", "cloudy", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	c := New[int](time.Minute)
	if _, ok := c.Get("nowhere"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"  Accra ":  "accra",
		"NEW YORK":  "new york",
		"london":    "london",
		"\tTokyo\n": "tokyo",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
