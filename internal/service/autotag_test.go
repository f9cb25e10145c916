package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoTags(t *testing.T) {
	cases := []struct {
		title string
		want  []string
	}{
		{"Water leakage in Room 204", []string{"plumbing"}},
		{"Tube light flickering", []string{"electrical"}},
		{"Fan not working", []string{"electrical"}},
		{"No wifi in block C", []string{"it-support"}},
		{"No internet since morning", []string{"it-support"}},
		{"Water damage near the light switch", []string{"plumbing", "electrical"}},
		{"Broken chair in common room", []string{}},
		{"", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, AutoTags(tc.title))
		})
	}
}

func TestAutoTags_CaseInsensitive(t *testing.T) {
	assert.Equal(t, []string{"plumbing"}, AutoTags("WATER everywhere"))
	assert.Equal(t, []string{"it-support"}, AutoTags("WiFi VERY slow"))
}

func TestAutoTags_OneTagPerRule(t *testing.T) {
	// Both keywords of the electrical rule appear; the tag shows up once.
	assert.Equal(t, []string{"electrical"}, AutoTags("light and fan both broken"))
}
