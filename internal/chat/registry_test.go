package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_RegisterAssignsDefaultName(t *testing.T) {
	r := NewRegistry(fixedRand(42))

	name := r.Register("c1")

	assert.Equal(t, "unnamed_user42", name)
	assert.Equal(t, "unnamed_user42", r.NameOf("c1"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DefaultNameStaysBelowThousand(t *testing.T) {
	r := NewRegistry(fixedRand(1999))

	assert.Equal(t, "unnamed_user999", r.Register("c1"))
}

func TestRegistry_SetNameOverwrites(t *testing.T) {
	r := NewRegistry(fixedRand(1))
	r.Register("c1")
	r.Register("c2")

	r.SetName("c1", "alice")
	r.SetName("c2", "alice")

	assert.Equal(t, "alice", r.NameOf("c1"))
	assert.Equal(t, "alice", r.NameOf("c2"), "names may collide")

	r.SetName("c1", "")
	assert.Equal(t, "", r.NameOf("c1"), "empty names are stored as given")
}

func TestRegistry_NameOfUnknownReturnsDefault(t *testing.T) {
	r := NewRegistry(fixedRand(5))

	assert.Equal(t, "unnamed_user5", r.NameOf("ghost"))
	assert.Equal(t, 0, r.Len(), "lookup must not insert")
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(fixedRand(1))
	r.Register("c1")

	r.Unregister("c1")
	r.Unregister("c1")
	r.Unregister("never-seen")

	assert.Equal(t, 0, r.Len())
}
