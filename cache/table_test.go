package cache

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/assetpack/errors"
)

func makeBlock(id uint32, fields ...string) Block {
	data := make([]byte, DefaultFieldOffset)
	binary.LittleEndian.PutUint32(data[DefaultIDOffset:], id)
	for _, f := range fields {
		data = append(data, f...)
		data = append(data, 0)
	}
	return Block{Data: data}
}

// countingSource records how often the table pulls its blocks.
type countingSource struct {
	blocks []Block
	calls  atomic.Int32
}

func (s *countingSource) Preload()            {}
func (s *countingSource) IsFullyLoaded() bool { return true }
func (s *countingSource) Blocks() []Block {
	s.calls.Add(1)
	return s.blocks
}

func TestTableGetAndField(t *testing.T) {
	table := NewTable(Blocks{
		makeBlock(1001, "Potion", "Potions", "A healing item"),
		makeBlock(1002, "Ether"),
	})

	b, ok := table.Get(1001)
	require.True(t, ok)
	assert.EqualValues(t, 1001, mustID(t, b))

	assert.Equal(t, "Potion", table.Field(1001, 0))
	assert.Equal(t, "A healing item", table.Field(1001, 2))
	assert.Equal(t, []string{"Ether"}, table.Fields(1002))
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []uint32{1001, 1002}, table.IDs())
}

func mustID(t *testing.T, b Block) uint32 {
	t.Helper()
	id, ok := b.Uint32At(DefaultIDOffset)
	require.True(t, ok)
	return id
}

func TestTableAbsentDefaults(t *testing.T) {
	table := NewTable(Blocks{makeBlock(1, "one")})

	for _, id := range []uint32{0, 2, 999, 0xFFFFFFFF} {
		_, ok := table.Get(id)
		assert.False(t, ok)
		assert.Equal(t, "", table.Field(id, 0))
		assert.Nil(t, table.Fields(id))
	}

	// present id, missing field index
	assert.Equal(t, "", table.Field(1, 5))
	assert.Equal(t, "", table.Field(1, -1))
}

func TestTableBuildsOnce(t *testing.T) {
	src := &countingSource{blocks: []Block{makeBlock(5, "a")}}
	table := NewTable(src)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "a", table.Field(5, 0))
		}()
	}
	wg.Wait()
	table.Get(6)
	table.IDs()

	assert.EqualValues(t, 1, src.calls.Load())
}

func TestTableMissLoggedOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	table := NewTable(Blocks{makeBlock(1)})
	var misses int
	table.Subscribe(ObserverFunc(func(e Event) {
		if e.Type == EventMiss {
			misses++
		}
	}))

	for i := 0; i < 3; i++ {
		table.Field(77, 0)
	}
	table.Field(78, 0)

	assert.Equal(t, 2, misses)
	assert.Equal(t, 2, logs.FilterMessage("cache miss").Len())
}

func TestTableDuplicateKeepsFirst(t *testing.T) {
	table := NewTable(Blocks{
		makeBlock(3, "first"),
		makeBlock(3, "second"),
		{Data: []byte{1, 2}}, // too short for an id
	})

	var events []EventType
	table.Subscribe(ObserverFunc(func(e Event) { events = append(events, e.Type) }))

	assert.Equal(t, "first", table.Field(3, 0))
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, []EventType{EventDuplicate, EventMalformed, EventBuilt}, events)
}

func TestTableCustomLayout(t *testing.T) {
	data := []byte{0x2A, 0x00, 'h', 'i', 0x00}
	table := NewTable(Blocks{{Data: data}},
		WithIDFunc(func(b Block) (uint32, bool) {
			return uint32(b.Data[0]), len(b.Data) > 0
		}),
		WithFieldOffset(2),
	)
	assert.Equal(t, "hi", table.Field(42, 0))
}

func TestTableTextEncoding(t *testing.T) {
	// "Caf\xe9" is "Café" in Windows-1252
	table := NewTable(Blocks{makeBlock(1, "Caf\xe9")}, WithTextEncoding(charmap.Windows1252))
	assert.Equal(t, "Café", table.Field(1, 0))
}

func TestBlockFields(t *testing.T) {
	b := Block{Data: []byte("hdr\x00a\x00\x00bc")}
	assert.Equal(t, []string{"a", "", "bc"}, b.Fields(4))
	assert.Nil(t, b.Fields(100))

	padded := Block{Data: []byte("x\x00\x00\x00\x00")}
	assert.Equal(t, []string{"x"}, padded.Fields(0))

	_, ok := b.Uint32At(8)
	assert.False(t, ok)
}

func TestAsyncSourcePreloadProtocol(t *testing.T) {
	release := make(chan struct{})
	var fetches atomic.Int32
	src := NewAsyncSource(func() ([]Block, error) {
		fetches.Add(1)
		<-release
		return []Block{makeBlock(9, "late")}, nil
	})
	table := NewTable(src)

	assert.False(t, table.IsFullyLoaded())
	assert.Equal(t, "", table.Field(9, 0), "queries before load degrade to empty")
	assert.Equal(t, 0, table.Len())

	table.Preload()
	table.Preload()
	close(release)

	require.Eventually(t, table.IsFullyLoaded, time.Second, time.Millisecond)
	assert.Equal(t, "late", table.Field(9, 0), "index is built after load, not frozen early")
	assert.EqualValues(t, 1, fetches.Load())
	assert.NoError(t, src.Err())
}

func TestAsyncSourceFailure(t *testing.T) {
	boom := fmt.Errorf("boom")
	src := NewAsyncSource(func() ([]Block, error) { return nil, boom })
	table := NewTable(src)
	table.Preload()

	require.Eventually(t, src.IsFullyLoaded, time.Second, time.Millisecond)
	assert.ErrorIs(t, src.Err(), boom)
	var e *errors.Error
	require.True(t, errors.As(src.Err(), &e))
	assert.Equal(t, errors.PhaseLoad, e.Phase)
	assert.Equal(t, errors.KindUnavailable, e.Kind)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, "", table.Field(1, 0))
}
