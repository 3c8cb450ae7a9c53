package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTeamTotality(t *testing.T) {
	tests := []struct {
		surface string
		want    TeamKey
	}{
		{"1s", "1s"},
		{"1st", "1s"},
		{"1st XI", "1s"},
		{"1st xi", "1s"},
		{"1st team", "1s"},
		{"firsts", "1s"},
		{"2s", "2s"},
		{"2nd XI", "2s"},
		{"seconds", "2s"},
		{"3rd team", "3s"},
		{"thirds", "3s"},
		{"4th XI", "4s"},
		{"fourths", "4s"},
		{"5s", "5s"},
		{"fifths", "5s"},
		{"6th xi", "6s"},
		{"sixths", "6s"},
		{"7s", "7s"},
		{"sevenths", "7s"},
		{"8s", "8s"},
		{"8th XI", "8s"},
		{"eighths", "8s"},
		{"Vets", TeamVets},
		{"vets", TeamVets},
		{"veterans", TeamVets},
		{"club", TeamClub},
		{"whole club", TeamClub},
	}

	for _, tt := range tests {
		t.Run(tt.surface, func(t *testing.T) {
			got, ok := NormalizeTeam(tt.surface)
			require.True(t, ok, "expected %q to normalize", tt.surface)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTeamRejectsUnknownForms(t *testing.T) {
	for _, surface := range []string{"9s", "0s", "11th XI", "ninths", "21st", "", "reserves"} {
		t.Run(surface, func(t *testing.T) {
			_, ok := NormalizeTeam(surface)
			assert.False(t, ok, "expected %q to be rejected", surface)
		})
	}
}

func TestNormalizeTeamIdempotentOnCanonicalKeys(t *testing.T) {
	for _, key := range SquadKeys() {
		got, ok := NormalizeTeam(string(key))
		require.True(t, ok)
		assert.Equal(t, key, got)
	}
}

func TestTeamDisplay(t *testing.T) {
	tests := []struct {
		key  TeamKey
		want string
	}{
		{"1s", "1st XI"},
		{"2s", "2nd XI"},
		{"3s", "3rd XI"},
		{"4s", "4th XI"},
		{"8s", "8th XI"},
		{TeamVets, "Vets"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.key.Display())
	}
}

func TestSquadKeys(t *testing.T) {
	keys := SquadKeys()
	require.Len(t, keys, 9)
	for n := 1; n <= 8; n++ {
		assert.Equal(t, TeamKey(fmt.Sprintf("%ds", n)), keys[n-1])
	}
	assert.Equal(t, TeamVets, keys[8])
}
