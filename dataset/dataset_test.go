package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/somgo/blobstore"
	"github.com/hupe1980/somgo/som"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iris = `5.1,3.5,1.4,0.2,Iris-setosa
4.9,3.0,1.4,0.2,Iris-setosa

7.0, 3.2, 4.7, 1.4, Iris-versicolor
6.3,3.3,6.0,2.5,Iris-virginica
`

func TestRead(t *testing.T) {
	vectors, err := Read(strings.NewReader(iris))
	require.NoError(t, err)
	require.Len(t, vectors, 4)

	assert.Equal(t, []float64{5.1, 3.5, 1.4, 0.2}, vectors[0].Values())
	assert.Equal(t, "Iris-setosa", vectors[0].Label())
	assert.Equal(t, []float64{7.0, 3.2, 4.7, 1.4}, vectors[2].Values())
	assert.Equal(t, "Iris-versicolor", vectors[2].Label())
	assert.Equal(t, "6.3,3.3,6,2.5,Iris-virginica", vectors[3].String())
}

func TestRead_Options(t *testing.T) {
	vectors, err := Read(strings.NewReader("1;2;a\n3;4;b\n"), WithComma(';'))
	require.NoError(t, err)
	assert.Equal(t, "b", vectors[1].Label())

	vectors, err = Read(strings.NewReader("1,2\n3,4\n"), WithoutLabel())
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, vectors[1].Values())
	assert.Empty(t, vectors[1].Label())
}

func TestRead_Errors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := Read(strings.NewReader("\n\n"))
		assert.ErrorIs(t, err, som.ErrEmptyInput)
	})

	t.Run("NonNumeric", func(t *testing.T) {
		_, err := Read(strings.NewReader("1,2,a\n1,x,b\n"))
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 2, pe.Line)
		assert.Equal(t, 3, pe.Column)
		assert.Equal(t, "x", pe.Field)
	})

	t.Run("NonFinite", func(t *testing.T) {
		for _, f := range []string{"NaN", "Inf", "-inf", "+Infinity"} {
			_, err := Read(strings.NewReader("1,2,a\n3," + f + ",b\n"))
			var pe *ParseError
			require.ErrorAs(t, err, &pe, f)
			assert.ErrorIs(t, err, ErrNonFinite, f)
			assert.Equal(t, 2, pe.Line)
			assert.Equal(t, 3, pe.Column)
			assert.Equal(t, f, pe.Field)
		}
	})

	t.Run("LabelOnly", func(t *testing.T) {
		_, err := Read(strings.NewReader("setosa\n"))
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, ErrMissingFeatures)
		assert.Equal(t, 1, pe.Line)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := Read(strings.NewReader("1,2,a\n1,2,3,b\n"))
		var dm *som.DimensionMismatchError
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 1, dm.Index)
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 3, dm.Actual)
	})

	t.Run("BadQuote", func(t *testing.T) {
		_, err := Read(strings.NewReader("1,\"2,a\n"))
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "data/iris.csv", []byte(iris)))

	vectors, err := Load(ctx, store, "data/iris.csv")
	require.NoError(t, err)
	assert.Len(t, vectors, 4)

	_, err = Load(ctx, store, "missing.csv")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "bad.csv", []byte("1,x,a\n")))
	_, err = Load(ctx, store, "bad.csv")
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestShuffled(t *testing.T) {
	vectors, err := Read(strings.NewReader(iris))
	require.NoError(t, err)

	shuffled := Shuffled(vectors, som.NewRand(7))
	require.Len(t, shuffled, len(vectors))
	assert.ElementsMatch(t, vectors, shuffled)

	// Deterministic for a seed, and the input is untouched.
	assert.Equal(t, shuffled, Shuffled(vectors, som.NewRand(7)))
	assert.Equal(t, "Iris-setosa", vectors[0].Label())
}
