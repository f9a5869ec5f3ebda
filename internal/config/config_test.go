package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDCPlants(t *testing.T) {
	got := parseDCPlants("91KA:1000011|1000012; 92KA: 2000021 |2000022")
	assert.Equal(t, map[string][]string{
		"91KA": {"1000011", "1000012"},
		"92KA": {"2000021", "2000022"},
	}, got)
}

func TestParseDCPlants_MalformedEntriesAreSkipped(t *testing.T) {
	got := parseDCPlants("91KA:1000011;;no-colon;93KA:; :1000099")
	assert.Equal(t, map[string][]string{"91KA": {"1000011"}}, got)
}

func TestParseDCPlants_Empty(t *testing.T) {
	assert.Empty(t, parseDCPlants(""))
}
