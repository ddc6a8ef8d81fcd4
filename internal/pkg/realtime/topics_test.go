package realtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolTopic_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		category string
		area     string
		expected string
	}{
		{
			name:     "plain inputs",
			category: "eco",
			area:     "city-default",
			expected: "pool.eco.city-default",
		},
		{
			name:     "uppercase and punctuation",
			category: "eco",
			area:     "City Center!",
			expected: "pool.eco.city_center_",
		},
		{
			name:     "surrounding whitespace",
			category: "  VIP  ",
			area:     " Libreville ",
			expected: "pool.vip.libreville",
		},
		{
			name:     "empty inputs fall back",
			category: "",
			area:     "",
			expected: "pool.default.default",
		},
		{
			name:     "accents replaced",
			category: "clim",
			area:     "Owendo Nzeng-Ayong",
			expected: "pool.clim.owendo_nzeng-ayong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PoolTopic(tt.category, tt.area))
		})
	}
}

func TestSlug_Truncation(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := slug(long)
	assert.Len(t, got, maxSlugLen)
}

func TestSlug_DistinctKeysStayDistinct(t *testing.T) {
	assert.NotEqual(t, PoolTopic("eco", "north"), PoolTopic("eco", "south"))
	assert.NotEqual(t, PoolTopic("eco", "north"), PoolTopic("vip", "north"))
}

func TestPersonalTopics(t *testing.T) {
	assert.Equal(t, "driver.7", DriverTopic(7))
	assert.Equal(t, "customer.42", CustomerTopic(42))
	assert.Equal(t, "user.42", LegacyCustomerTopic(42))
	assert.Equal(t, []string{"customer.42", "user.42"}, CustomerTopics(42))
}
