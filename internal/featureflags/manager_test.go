package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.Truef(t, m.Enabled(name, 1), "flag %s", name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.Falsef(t, m.Enabled(name, 1), "flag %s", name)
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,junk=abc%")

	assert.True(t, m.Enabled("always", 1))
	assert.False(t, m.Enabled("never", 1))
	assert.False(t, m.Enabled("junk", 1))

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42), "rollout must be deterministic per user")
	}
	assert.False(t, m.Enabled("canary", 0), "percentage rollout requires a user")

	enabled := 0
	for uid := uint(1); uid <= 1000; uid++ {
		if m.Enabled("canary", uid) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 80)
}

func TestEnabledOr(t *testing.T) {
	m := NewManager("cte_subtree_delete=off")

	assert.False(t, m.EnabledOr(RecursiveSubtreeDelete, 1, true))
	assert.True(t, m.EnabledOr(ChecklistTreeCache, 1, true))

	var nilManager *Manager
	assert.True(t, nilManager.EnabledOr(RecursiveSubtreeDelete, 1, true))
	assert.False(t, nilManager.Enabled(RecursiveSubtreeDelete, 1))
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, Y = 100% ,z=off,=on,w= ")

	assert.Equal(t, map[string]string{"x": "on", "y": "100%", "z": "off"}, m.Raw())
	assert.Equal(t, []string{"x", "y", "z"}, m.Names())
	assert.Equal(t, map[string]bool{"x": true, "y": true, "z": false}, m.Snapshot(7))
}
