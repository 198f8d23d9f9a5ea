package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys for the artifacts wirecat produces.
type Keyer interface {
	// DiagramKey generates a key for a stored diagram document.
	DiagramKey(id string) string

	// RenderKey generates a key for a rendered artifact of the diagram with
	// the given content hash.
	RenderKey(diagramHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts captures the render parameters that distinguish artifacts
// of the same diagram.
type RenderKeyOpts struct {
	Format     string  `json:"format"`
	ShowValues bool    `json:"show_values"`
	Scale      float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// DiagramKey generates a key for a stored diagram document.
func (k *DefaultKeyer) DiagramKey(id string) string {
	return hashKey("diagram", id)
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(diagramHash string, opts RenderKeyOpts) string {
	return hashKey("render", diagramHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so
// several tools or tenants can share one backend without key collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DiagramKey generates a prefixed diagram key.
func (k *ScopedKeyer) DiagramKey(id string) string {
	return k.prefix + k.inner.DiagramKey(id)
}

// RenderKey generates a prefixed render-artifact key.
func (k *ScopedKeyer) RenderKey(diagramHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(diagramHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions.
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes the SHA-256 content hash of data as a 64-character hex
// string. Diagram bytes are hashed with this to build render keys.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
