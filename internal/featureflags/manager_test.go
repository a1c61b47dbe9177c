package featureflags

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")
	user := uuid.New()

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, user), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, user), name)
	}
	assert.True(t, m.Enabled("A", uuid.Nil), "boolean flags ignore the user and case")
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,broken=abc%")
	user := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")

	assert.True(t, m.Enabled("always", user))
	assert.False(t, m.Enabled("never", user))
	assert.False(t, m.Enabled("broken", user))

	first := m.Enabled("canary", user)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", user), "rollout evaluation must be deterministic per user")
	}
	assert.False(t, m.Enabled("canary", uuid.Nil), "percentage rollout requires a user")
}

func TestEnabled_PercentageRoughlyMatchesShare(t *testing.T) {
	m := NewManager("half=50%")
	on := 0
	for i := 0; i < 2000; i++ {
		if m.Enabled("half", uuid.New()) {
			on++
		}
	}
	assert.InDelta(t, 1000, on, 200)
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	raw := m.Raw()
	assert.Len(t, raw, 3)
	assert.Equal(t, map[string]string{"x": "on", "y": "20%", "z": "off"}, raw)
	assert.Equal(t, []string{"x", "y", "z"}, m.Names())

	snap := m.Snapshot(uuid.New())
	assert.Len(t, snap, 3)
	assert.True(t, snap["x"])
	assert.False(t, snap["z"])
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(StrictStatusTransitions, uuid.New()))
	assert.Empty(t, m.Raw())
	assert.Empty(t, m.Snapshot(uuid.New()))
}
