package xcodeproj

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// A GIDGenerator assigns the 96-bit identifiers pbxproj objects are keyed by.
// Identifiers are content hashes of the object's type and position in the
// graph, so an unchanged graph always serializes with unchanged identifiers.
// The zero value is not safe for use.
type GIDGenerator struct {
	used map[string]struct{}
}

// NewGIDGenerator returns a ready-to-use generator.
func NewGIDGenerator() *GIDGenerator {
	return &GIDGenerator{used: map[string]struct{}{}}
}

// TargetGIDs returns the identifiers Serialize will assign to the project's
// targets. Targets get theirs first and from the same generator seed, so this
// matches the serialized output exactly; schemes rely on that to reference
// their targets by identifier.
func (p *Project) TargetGIDs() map[string]string {
	gen := NewGIDGenerator()
	gids := make(map[string]string, len(p.targets))
	for _, target := range p.targets {
		gids[target.TargetName()] = gen.Generate(isaForTarget(target), "target:"+target.TargetName())
	}
	return gids
}

// Generate returns a new unique 24-hex-digit identifier for the object
// described by isa and path. Hash collisions are resolved by bumping a
// counter into the hashed key, so the result is collision-free per generator.
func (g *GIDGenerator) Generate(isa, path string) string {
	for i := 0; ; i++ {
		key := fmt.Sprintf("%s|%s|%d", isa, path, i)
		h1 := xxhash.Sum64String(key)
		h2 := xxhash.Sum64String("salt:" + key)
		gid := fmt.Sprintf("%016X%08X", h1, uint32(h2))
		if _, present := g.used[gid]; !present {
			g.used[gid] = struct{}{}
			return gid
		}
	}
}
