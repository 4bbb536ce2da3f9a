package effects

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allNames = []string{
	"chase_down", "chase_spiral", "chase_up",
	"colour_rain", "colour_spiral", "colour_stack",
	"colour_trail", "colour_waterfall", "colour_wave",
	"dissolve", "expand", "fade",
	"wipe_down", "wipe_left", "wipe_right", "wipe_up",
}

func TestRegistryListsEveryEffect(t *testing.T) {
	reg := NewRegistry(rand.NewSource(1))
	got := reg.List()
	assert.True(t, sort.StringsAreSorted(got))
	assert.Equal(t, allNames, got)
}

func TestRegistryUnknownNameFallsBackToFade(t *testing.T) {
	reg := NewRegistry(rand.NewSource(1))
	assert.Equal(t, reg.Get("fade"), reg.Get("nonexistent"))
	assert.Equal(t, "fade", reg.Get("nonexistent").Name())
	assert.False(t, reg.Has("nonexistent"))
	assert.True(t, reg.Has("colour_wave"))
}

func TestRegistryClassifiesBufferEffects(t *testing.T) {
	reg := NewRegistry(rand.NewSource(1))
	bufferNames := map[string]bool{
		"colour_stack": true, "colour_rain": true, "colour_trail": true,
		"colour_waterfall": true, "colour_wave": true, "colour_spiral": true,
	}
	for _, name := range reg.List() {
		assert.Equal(t, bufferNames[name], reg.IsBufferEffect(name), name)
	}
	assert.False(t, reg.IsBufferEffect("nonexistent"))
}

func TestRegistryListReturnsCopy(t *testing.T) {
	reg := NewRegistry(rand.NewSource(1))
	names := reg.List()
	names[0] = "mutated"
	assert.Equal(t, allNames, reg.List())
}
