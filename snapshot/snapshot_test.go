package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/hupe1980/somgo/blobstore"
	"github.com/hupe1980/somgo/codec"
	"github.com/hupe1980/somgo/resource"
	"github.com/hupe1980/somgo/som"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()

	g, err := som.NewGrid(2, 10, 3)
	require.NoError(t, err)
	for i := range g.Len() {
		p := som.Position{Row: i / 10, Col: i % 10}
		require.NoError(t, g.SetWeight(p, []float64{float64(i), 0.5, -1.0 / float64(i+1)}))
		label := "left"
		if p.Col >= 5 {
			label = "right"
		}
		require.NoError(t, g.SetLabel(p, label))
	}

	mn, h := som.CompactLabels(g)
	return FromGrid(g, mn, h, som.TrainStats{Epochs: 100, Steps: 2000, FinalRate: 0.07, Duration: time.Second})
}

func TestFromGrid_Grid(t *testing.T) {
	s := testSnapshot(t)
	require.NoError(t, s.Validate())

	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 10, s.Cols)
	assert.Equal(t, 3, s.Dim)
	assert.Len(t, s.Weights, 20)
	assert.Equal(t, []som.MnemonicEntry{{Label: "left", Code: "a"}, {Label: "right", Code: "b"}}, s.Mnemonics)

	g, err := s.Grid()
	require.NoError(t, err)
	assert.Equal(t, "right", g.Label(som.Position{Row: 1, Col: 7}))
	w, err := g.Weight(som.Position{Row: 1, Col: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 0.5, -1.0 / 13}, w)

	assert.Equal(t, 10, s.HistogramTable().Count("a"))
	code, ok := s.MnemonicTable().Code("right")
	assert.True(t, ok)
	assert.Equal(t, "b", code)
	assert.Equal(t, 2000, s.TrainStats().Steps)
}

func TestSnapshot_Validate(t *testing.T) {
	s := testSnapshot(t)
	s.Labels = s.Labels[:3]
	assert.Error(t, s.Validate())

	s = testSnapshot(t)
	s.Weights[4] = []float64{1}
	assert.Error(t, s.Validate())

	s = testSnapshot(t)
	s.Rows = 0
	assert.Error(t, s.Validate())
	_, err := s.Grid()
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	for _, name := range codec.Names() {
		for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
			t.Run(fmt.Sprintf("%s/%s", name, comp), func(t *testing.T) {
				c, _ := codec.ByName(name)
				in := testSnapshot(t)

				data, err := Encode(in, WithCodec(c), WithCompression(comp))
				require.NoError(t, err)

				h, _, err := ReadHeader(data)
				require.NoError(t, err)
				assert.Equal(t, name, h.Codec)
				assert.Equal(t, Version, h.Version)

				out, err := Decode(data)
				require.NoError(t, err)
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestEncode_LZ4FallsBackForIncompressible(t *testing.T) {
	stored, applied, err := compress([]byte("ab"), CompressionLZ4)
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, applied)
	assert.Equal(t, []byte("ab"), stored)
}

func TestDecode_Errors(t *testing.T) {
	data, err := Encode(testSnapshot(t))
	require.NoError(t, err)

	t.Run("BadMagic", func(t *testing.T) {
		bad := bytes.Clone(data)
		copy(bad, "NOPE")
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Short", func(t *testing.T) {
		_, err := Decode([]byte("SO"))
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Version", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.LittleEndian.PutUint16(bad[4:], 99)
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("UnknownCodec", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[fixedHeaderSize] = 'x'
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("FlippedPayloadByte", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(bad)-1] ^= 0xff
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Decode(data[:len(data)-5])
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("TruncatedHeader", func(t *testing.T) {
		_, err := Decode(data[:fixedHeaderSize+3])
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestEncode_Invalid(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)

	s := testSnapshot(t)
	s.Dim = 7
	_, err = Encode(s)
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
	assert.Equal(t, "Compression(9)", Compression(9).String())
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 24})

	clock := time.Unix(1700000000, 0)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	_, err := Load(ctx, store)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	first := testSnapshot(t)
	name1, err := Save(ctx, store, first, WithClock(tick), WithResourceController(rc))
	require.NoError(t, err)
	assert.Equal(t, "snapshots/1700000001000000000.soms", name1)

	second := testSnapshot(t)
	second.Labels[0] = "right"
	name2, err := Save(ctx, store, second, WithClock(tick), WithCompression(CompressionLZ4))
	require.NoError(t, err)

	current, err := Current(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, name2, current)

	got, err := Load(ctx, store, WithResourceController(rc))
	require.NoError(t, err)
	assert.Equal(t, "right", got.Labels[0])
	assert.True(t, got.CreatedAt.Equal(time.Unix(1700000002, 0)))

	old, err := LoadNamed(ctx, store, name1)
	require.NoError(t, err)
	assert.Equal(t, "left", old.Labels[0])

	names, err := List(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{name1, name2}, names)
}

func TestDecode_RawLenOutOfRange(t *testing.T) {
	off := fixedHeaderSize + len(codec.Default.Name()) + 4

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		data, err := Encode(testSnapshot(t), WithCompression(c))
		require.NoError(t, err)

		for _, rawLen := range []uint64{1 << 62, math.MaxUint64, MaxRawLen + 1} {
			t.Run(fmt.Sprintf("%s/%d", c, rawLen), func(t *testing.T) {
				bad := bytes.Clone(data)
				binary.LittleEndian.PutUint64(bad[off:], rawLen)

				var (
					s    *Snapshot
					derr error
				)
				require.NotPanics(t, func() { s, derr = Decode(bad) })
				assert.ErrorIs(t, derr, ErrCorrupt)
				assert.Nil(t, s)
			})
		}

		t.Run(fmt.Sprintf("%s/Short", c), func(t *testing.T) {
			h, _, err := ReadHeader(data)
			require.NoError(t, err)
			bad := bytes.Clone(data)
			binary.LittleEndian.PutUint64(bad[off:], h.RawLen+1)
			_, err = Decode(bad)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestLoad_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	name, err := Save(ctx, store, testSnapshot(t))
	require.NoError(t, err)

	data, err := blobstore.Get(ctx, store, name)
	require.NoError(t, err)
	data[len(data)-1] ^= 0x01
	require.NoError(t, store.Put(ctx, name, data))

	_, err = Load(ctx, store)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, store.Put(ctx, CurrentName, []byte("  ")))
	_, err = Load(ctx, store)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	clock := time.Unix(1, 0)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	var names []string
	for range 4 {
		name, err := Save(ctx, store, testSnapshot(t), WithClock(tick))
		require.NoError(t, err)
		names = append(names, name)
	}

	// Point CURRENT at an old snapshot; it must survive.
	require.NoError(t, store.Put(ctx, CurrentName, []byte(names[0])))

	deleted, err := Prune(ctx, store, 1)
	require.NoError(t, err)
	assert.Equal(t, names[1:3], deleted)

	left, err := List(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{names[0], names[3]}, left)

	deleted, err = Prune(ctx, store, 5)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestCompareNames(t *testing.T) {
	names := []string{"snapshots/100.soms", "snapshots/99.soms", "snapshots/1000.soms"}
	assert.Negative(t, compareNames(names[1], names[0]))
	assert.Negative(t, compareNames(names[0], names[2]))
	assert.Zero(t, compareNames(names[0], names[0]))
}
