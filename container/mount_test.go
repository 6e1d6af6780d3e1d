package container

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/assetpack/link"
	"github.com/wippyai/assetpack/namespace"
)

func decodeResources(t *testing.T, res ...Resource) *Container {
	t.Helper()
	data, err := Encode(res)
	require.NoError(t, err)
	c, err := Decode(data)
	require.NoError(t, err)
	return c
}

func mountedTree(t *testing.T) (*namespace.Node[Object], *namespace.Node[Object]) {
	t.Helper()
	shared := decodeResources(t,
		&EmitterTable{ID: 1, Emitters: []*Emitter{{ID: 2, Name: "smoke", Lifetime: 4}}},
		&SoundTable{ID: 2, Sounds: []*Sound{{ID: 500, Bank: 1}}},
	)
	effects := decodeResources(t,
		&EmitterTable{ID: 1, Emitters: []*Emitter{
			{ID: 1, Name: "spark", OnExpire: link.New[Object](2), Sound: link.New[Object](500)},
			{ID: 3, Name: "dud", OnExpire: link.New[Object](99)},
			{ID: 4, Name: "dud2", OnExpire: link.New[Object](99)},
			{ID: 5, Name: "local", OnExpire: link.New[Object](1)},
		}},
	)

	root := namespace.New[Object]()
	Mount(root, "shared", shared)
	return root, Mount(root, "effects", effects)
}

func TestMountDefinesEntries(t *testing.T) {
	root, effects := mountedTree(t)

	assert.Equal(t, "effects", effects.Name())
	assert.Same(t, root, effects.Root())

	v, ok := root.Lookup("shared#" + SoundKey(500))
	require.True(t, ok)
	assert.EqualValues(t, 1, v.(*Sound).Bank)

	v, ok = root.Lookup("shared#" + NameKey("smoke"))
	require.True(t, ok)
	assert.EqualValues(t, 2, v.(*Emitter).ID)

	v, ok = effects.Get(SectionKey(1))
	require.True(t, ok)
	assert.IsType(t, &EmitterTable{}, v)

	_, ok = effects.Get(EmitterKey(2))
	assert.False(t, ok)
}

func TestMountUnnamedUsesDigest(t *testing.T) {
	c := decodeResources(t, &StringTable{ID: 1, Entries: []string{"a"}})
	root := namespace.New[Object]()

	node := Mount(root, "", c)
	assert.Equal(t, fmt.Sprintf("%016x", c.Digest), node.Name())
	_, ok := node.Get(SectionKey(1))
	assert.True(t, ok)
}

func TestLinkResolution(t *testing.T) {
	_, effects := mountedTree(t)
	r := NewResolver(effects)
	spark, ok := effects.Get(NameKey("spark"))
	require.True(t, ok)
	e := spark.(*Emitter)

	target, ok := e.ExpireTarget(r)
	require.True(t, ok, "root fallback finds the shared emitter")
	assert.Equal(t, "smoke", target.Name)
	assert.Equal(t, link.Resolved, e.OnExpire.State())

	again, ok := e.ExpireTarget(r)
	require.True(t, ok)
	assert.Same(t, target, again)

	snd, ok := e.SoundTarget(r)
	require.True(t, ok)
	assert.EqualValues(t, 500, snd.ID)

	_, ok = target.ExpireTarget(r)
	assert.False(t, ok, "no link")
	_, ok = target.SoundTarget(r)
	assert.False(t, ok)

	local, _ := effects.Get(NameKey("local"))
	self, ok := local.(*Emitter).ExpireTarget(r)
	require.True(t, ok)
	assert.Equal(t, "spark", self.Name, "own subtree wins over root")
}

func TestLinkMissLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	_, effects := mountedTree(t)
	r := NewResolver(effects)

	var calls atomic.Int32
	counting := func(id uint32) (Object, bool) {
		calls.Add(1)
		return r.Emitters()(id)
	}

	dud, _ := effects.Get(NameKey("dud"))
	l := dud.(*Emitter).OnExpire
	for i := 0; i < 3; i++ {
		_, ok := l.GetOrPut(counting)
		assert.False(t, ok)
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, link.Absent, l.State())

	dud2, _ := effects.Get(NameKey("dud2"))
	_, ok := dud2.(*Emitter).ExpireTarget(r)
	assert.False(t, ok)

	entries := logs.FilterMessage("unresolved reference").All()
	require.Len(t, entries, 1)
	assert.Equal(t, EmitterKey(99), entries[0].ContextMap()["key"])
	assert.Equal(t, "effects", entries[0].ContextMap()["namespace"])
}

func TestConcurrentResolution(t *testing.T) {
	_, effects := mountedTree(t)
	r := NewResolver(effects)
	spark, _ := effects.Get(NameKey("spark"))
	e := spark.(*Emitter)

	const workers = 16
	results := make([]*Emitter, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = e.ExpireTarget(r)
		}()
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for _, got := range results {
		assert.Same(t, results[0], got)
	}
}

func TestMountNamesCannotShadowKeys(t *testing.T) {
	c := decodeResources(t,
		&SoundTable{ID: 1, Sounds: []*Sound{{ID: 5, Bank: 3}}},
		&EmitterTable{ID: 2, Emitters: []*Emitter{
			{ID: 9, Name: SoundKey(5)},
			{ID: 8, Name: "caller", Sound: link.New[Object](5)},
		}},
	)
	root := namespace.New[Object]()
	node := Mount(root, "fx", c)

	v, ok := node.Get(SoundKey(5))
	require.True(t, ok)
	assert.IsType(t, &Sound{}, v)

	named, ok := node.Get(NameKey(SoundKey(5)))
	require.True(t, ok)
	assert.EqualValues(t, 9, named.(*Emitter).ID)

	caller, _ := node.Get(NameKey("caller"))
	snd, ok := caller.(*Emitter).SoundTarget(NewResolver(node))
	require.True(t, ok)
	assert.EqualValues(t, 3, snd.Bank)
}

func TestNamespaceKeys(t *testing.T) {
	assert.Equal(t, "section:4", SectionKey(4))
	assert.Equal(t, "emitter:7", EmitterKey(7))
	assert.Equal(t, "sound:4294967295", SoundKey(NoLink))
	assert.Equal(t, "name:spark", NameKey("spark"))
}
