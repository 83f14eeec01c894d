package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jose ramirez", "jose ramirez"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeLike(tt.in))
	}
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "contracts:all", ContractTableCacheKey())
	assert.Equal(t, "recent_war:aaron judge:2025", RecentWARCacheKey("aaron judge", 2025))
	assert.Equal(t, "player_search:judge", PlayerSearchCacheKey("judge"))
}
