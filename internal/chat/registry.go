package chat

import "fmt"

// Registry maps connection identifiers to display names. It is not safe for
// concurrent use; the Hub serializes every access.
type Registry struct {
	names map[string]string
	rand  Rand
}

// NewRegistry creates an empty registry drawing default names from r.
func NewRegistry(r Rand) *Registry {
	if r == nil {
		r = globalRand{}
	}
	return &Registry{names: make(map[string]string), rand: r}
}

// Register stores a fresh default name for id and returns it.
func (r *Registry) Register(id string) string {
	name := r.defaultName()
	r.names[id] = name
	return name
}

// SetName overwrites the display name of id. Names are not checked for
// uniqueness or content.
func (r *Registry) SetName(id, name string) {
	r.names[id] = name
}

// NameOf returns the display name of id, or a default name if id was never
// registered.
func (r *Registry) NameOf(id string) string {
	if name, ok := r.names[id]; ok {
		return name
	}
	return r.defaultName()
}

// Unregister forgets id. Missing ids are ignored.
func (r *Registry) Unregister(id string) {
	delete(r.names, id)
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	return len(r.names)
}

func (r *Registry) defaultName() string {
	return fmt.Sprintf("unnamed_user%d", r.rand.IntN(1000))
}
