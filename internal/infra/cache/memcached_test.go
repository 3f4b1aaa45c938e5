package cache

import (
	"testing"
	"time"
)

func TestMemcacheExpiration(t *testing.T) {
	cases := []struct {
		name string
		ttl  time.Duration
		want int32
	}{
		{"seconds", 30 * time.Second, 30},
		{"minutes", time.Minute, 60},
		{"week", 7 * 24 * time.Hour, 604800},
		{"exactly thirty days", 30 * 24 * time.Hour, 2592000},
		// A manual spotlight can be pinned far out; anything past 30
		// days would be read as an absolute timestamp in the past and
		// evicted immediately.
		{"sixty days capped", 60 * 24 * time.Hour, 2592000},
		{"year capped", 365 * 24 * time.Hour, 2592000},
	}
	for _, tc := range cases {
		if got := memcacheExpiration(tc.ttl); got != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, got)
		}
	}
}
