package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/assetpack/internal/misslog"
	"github.com/wippyai/assetpack/link"
	"github.com/wippyai/assetpack/namespace"
)

// Mount defines the contents of c under root's child name and returns that
// child. An empty name mounts under the container digest in hex.
//
// Every section is defined under SectionKey. Emitters are defined under
// EmitterKey and, when named, under NameKey; sounds under SoundKey.
// Mounting twice under the same name overwrites earlier entries.
func Mount(root *namespace.Node[Object], name string, c *Container) *namespace.Node[Object] {
	if name == "" {
		name = fmt.Sprintf("%016x", c.Digest)
	}
	node := root.Child(name)

	var emitters, sounds int
	for _, res := range c.sections {
		node.Define(res.ObjectKey(), res)
		switch t := res.(type) {
		case *EmitterTable:
			for _, e := range t.Emitters {
				node.Define(e.ObjectKey(), e)
				if e.Name != "" {
					node.Define(NameKey(e.Name), e)
				}
				emitters++
			}
		case *SoundTable:
			for _, s := range t.Sounds {
				node.Define(s.ObjectKey(), s)
				sounds++
			}
		}
	}

	Logger().Debug("container mounted",
		zap.String("namespace", node.FullPath()),
		zap.Int("sections", len(c.sections)),
		zap.Int("emitters", emitters),
		zap.Int("sounds", sounds))
	return node
}

// Resolver resolves links against a namespace node: first the node's own
// subtree, then the whole tree from the root. Misses are logged once per
// key.
type Resolver struct {
	node   *namespace.Node[Object]
	misses *misslog.Log
}

// NewResolver creates a resolver rooted at node.
func NewResolver(node *namespace.Node[Object]) *Resolver {
	return &Resolver{
		node:   node,
		misses: misslog.New("unresolved reference", Logger),
	}
}

// Lookup resolves key. A miss is not an error.
func (r *Resolver) Lookup(key string) (Object, bool) {
	v, ok := r.node.Resolve(key)
	if !ok {
		r.misses.Report(key, zap.String("namespace", r.node.FullPath()))
	}
	return v, ok
}

// Emitters returns a link resolver for emitter ids.
func (r *Resolver) Emitters() link.Resolver[Object] {
	return func(id uint32) (Object, bool) {
		return r.Lookup(EmitterKey(id))
	}
}

// Sounds returns a link resolver for sound ids.
func (r *Resolver) Sounds() link.Resolver[Object] {
	return func(id uint32) (Object, bool) {
		return r.Lookup(SoundKey(id))
	}
}

// ExpireTarget returns the emitter spawned when e's particles expire.
// The link is resolved on the first call only.
func (e *Emitter) ExpireTarget(r *Resolver) (*Emitter, bool) {
	if e.OnExpire == nil {
		return nil, false
	}
	v, ok := e.OnExpire.GetOrPut(r.Emitters())
	if !ok {
		return nil, false
	}
	target, ok := v.(*Emitter)
	return target, ok
}

// SoundTarget returns the sound e plays.
func (e *Emitter) SoundTarget(r *Resolver) (*Sound, bool) {
	if e.Sound == nil {
		return nil, false
	}
	v, ok := e.Sound.GetOrPut(r.Sounds())
	if !ok {
		return nil, false
	}
	s, ok := v.(*Sound)
	return s, ok
}
