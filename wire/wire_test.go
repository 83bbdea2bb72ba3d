package wire

import (
	"runtime"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/internal/testutil"
	"github.com/hupe1980/antmesh/knowledge"
)

func sample() *knowledge.Snapshot {
	g := testutil.NewGrid(8).
		Year(3).Line(grid.Pt(4, 4), grid.Pt(4, 7)).
		Year(5).Block(grid.Pt(5, 4)).Food(grid.Pt(4, 7), 6).
		Build()
	return testutil.NewSnapshot(knowledge.Scanner).ID(-42).Age(9).Year(12).Grid(g).Build()
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := sample()

	b, err := Marshal(in)
	require.NoError(t, err)
	out, err := Unmarshal(b)
	require.NoError(t, err)

	assert.Equal(t, in.Role, out.Role)
	assert.Equal(t, in.Age, out.Age)
	assert.Equal(t, in.Year, out.Year)
	assert.Equal(t, in.ID, out.ID)
	require.True(t, out.HasGrid())
	assert.Equal(t, in.Grid.Size(), out.Grid.Size())
	if diff := cmp.Diff(in.Grid.Cells(), out.Grid.Cells()); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshal_GridlessIsNotAnEmptyGrid(t *testing.T) {
	header := testutil.NewSnapshot(knowledge.Worker).ID(7).Age(30).Year(31).Build()
	unknown := testutil.NewSnapshot(knowledge.Worker).ID(7).Age(30).Year(31).Grid(grid.New(4)).Build()

	hb, err := Marshal(header)
	require.NoError(t, err)
	ub, err := Marshal(unknown)
	require.NoError(t, err)
	assert.NotEqual(t, hb, ub)
	assert.Less(t, len(hb), 16)

	h, err := Unmarshal(hb)
	require.NoError(t, err)
	assert.False(t, h.HasGrid())

	u, err := Unmarshal(ub)
	require.NoError(t, err)
	require.True(t, u.HasGrid())
	s, _ := u.Grid.At(grid.Pt(0, 0))
	assert.Equal(t, grid.Unknown, s.Food)
	assert.Equal(t, grid.Unknown, s.YearViewed)
}

func TestMarshal_Nil(t *testing.T) {
	_, err := Marshal(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func header(version uint64, role uint64) []byte {
	b := appendUint(nil, fieldVersion, version)
	b = appendUint(b, fieldRole, role)
	b = appendSint(b, fieldAge, 1)
	return appendSint(b, fieldYear, 1)
}

func TestUnmarshal_Errors(t *testing.T) {
	full, err := Marshal(sample())
	require.NoError(t, err)

	shortGrid := header(Version, uint64(knowledge.Scanner))
	shortGrid = protowire.AppendTag(shortGrid, fieldGrid, protowire.BytesType)
	shortGrid = protowire.AppendBytes(shortGrid, appendUint(nil, fieldSize, 2))

	hugeGrid := header(Version, uint64(knowledge.Scanner))
	hugeGrid = protowire.AppendTag(hugeGrid, fieldGrid, protowire.BytesType)
	hugeGrid = protowire.AppendBytes(hugeGrid, appendUint(nil, fieldSize, MaxGridSize+1))

	negative := appendUint(nil, fieldVersion, Version)
	negative = appendUint(negative, fieldRole, uint64(knowledge.Worker))
	negative = appendSint(negative, fieldAge, -1)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrMalformed},
		{"truncated", full[:len(full)-3], ErrMalformed},
		{"garbage", []byte{0xff, 0xff, 0xff}, ErrMalformed},
		{"missing version", appendUint(nil, fieldRole, 1), ErrMalformed},
		{"future version", header(2, 1), ErrVersion},
		{"unknown role", header(Version, 9), ErrMalformed},
		{"zero role", header(Version, 0), ErrMalformed},
		{"negative age", negative, ErrMalformed},
		{"grid without cells", shortGrid, ErrMalformed},
		{"grid too large", hugeGrid, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Unmarshal(tt.data)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, s)
		})
	}
}

func TestUnmarshal_CellCountCheckedBeforeAllocation(t *testing.T) {
	data := header(Version, uint64(knowledge.Scanner))
	data = protowire.AppendTag(data, fieldGrid, protowire.BytesType)
	data = protowire.AppendBytes(data, appendUint(nil, fieldSize, MaxGridSize))

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	for range 10 {
		_, err := Unmarshal(data)
		require.ErrorIs(t, err, ErrMalformed)
	}
	runtime.ReadMemStats(&after)

	// A full grid of this size would be tens of megabytes per decode.
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	b := header(Version, uint64(knowledge.Coordinator))
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("future"))
	b = appendUint(b, 100, 5)

	s, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, knowledge.Coordinator, s.Role)
}

func TestCodec_CachesDecodes(t *testing.T) {
	c, err := NewCodec(4)
	require.NoError(t, err)

	b, err := c.Encode(sample())
	require.NoError(t, err)

	first, err := c.Decode(b)
	require.NoError(t, err)
	second, err := c.Decode(b)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, c.Hits())
	assert.EqualValues(t, 1, c.Misses())
	assert.Equal(t, 1, c.Len())
}

func TestCodec_DoesNotCacheFailures(t *testing.T) {
	c, err := NewCodec(4)
	require.NoError(t, err)

	_, err = c.Decode([]byte{0xff})
	require.ErrorIs(t, err, ErrMalformed)
	assert.Zero(t, c.Len())
}

func TestCodec_Uncached(t *testing.T) {
	c, err := NewCodec(0)
	require.NoError(t, err)

	b, err := c.Encode(sample())
	require.NoError(t, err)
	first, err := c.Decode(b)
	require.NoError(t, err)
	second, err := c.Decode(b)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Zero(t, c.Len())
}

func TestCodec_ConcurrentDecode(t *testing.T) {
	c, err := NewCodec(DefaultCacheSize)
	require.NoError(t, err)
	b, err := c.Encode(sample())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.Decode(b)
			assert.NoError(t, err)
			assert.Equal(t, int64(-42), s.ID)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 16, c.Hits()+c.Misses())
}
