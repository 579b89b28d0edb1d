package group

import (
	"testing"

	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/extrema"
	"github.com/hupe1980/drometa/internal/bitmap"
	"github.com/hupe1980/drometa/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) (*metadata.Store, *Group) {
	t.Helper()
	stress := []float64{0.1, 0.5, 0.2, 0.9}
	bins := []float64{0, 0, 1, 1}

	records := make([]metadata.Record, len(stress))
	keys := make([]dimension.BinKey, len(stress))
	for i := range stress {
		records[i] = metadata.Record{
			ID:     metadata.RecordID(100 + i),
			Fields: metadata.Document{"stress": metadata.Float(stress[i])},
		}
		keys[i] = dimension.Single(metadata.Float(bins[i]))
	}
	store, err := metadata.NewStore(records)
	require.NoError(t, err)

	dim := dimension.New(dimension.Histogram("stress"), keys)
	g := New(dim, store, []string{"stress"}, func(row int, attr string) (float64, bool) {
		return store.At(row).Fields[attr].Number()
	})
	return store, g
}

func TestInitial(t *testing.T) {
	acc := Initial([]string{"a", "b"})
	assert.Empty(t, acc.Items)
	assert.Zero(t, acc.Count)
	assert.Equal(t, extrema.Empty(), acc.Extrema["a"])
	assert.Len(t, acc.Extrema, 2)
}

func TestAddRemove(t *testing.T) {
	_, g := fixture(t)
	for row := 0; row < 4; row++ {
		g.Add(row)
	}

	low, ok := g.Get(dimension.Single(metadata.Float(0)))
	require.True(t, ok)
	assert.Equal(t, uint(2), low.Count)
	assert.Equal(t, extrema.Extrema{Min: 0.1, Max: 0.5}, low.Extrema["stress"])

	g.Remove(1)
	assert.Equal(t, uint(1), low.Count)
	require.Len(t, low.Items, 1)
	assert.Equal(t, metadata.RecordID(100), low.Items[0].ID)
	assert.Equal(t, 0.5, low.Extrema["stress"].Max, "extrema are not narrowed on removal")
	assert.Equal(t, 3, g.Members().Cardinality())
}

func TestAddThenRemoveRestoresCount(t *testing.T) {
	_, g := fixture(t)
	g.Add(0)
	g.Add(2)

	high, _ := g.Get(dimension.Single(metadata.Float(1)))
	before := high.Count

	g.Add(3)
	g.Remove(3)
	assert.Equal(t, before, high.Count)
	assert.Equal(t, 0.9, high.Extrema["stress"].Max)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	store, g := fixture(t)
	acc := Initial(nil)
	Remove(acc, store.At(0))
	assert.Zero(t, acc.Count)

	g.Add(0)
	g.Remove(0)
	g.Remove(0)
	low, _ := g.Get(dimension.Single(metadata.Float(0)))
	assert.Zero(t, low.Count)
}

func TestCountInvariant(t *testing.T) {
	_, g := fixture(t)
	active := map[int]bool{}
	ops := []struct {
		row int
		add bool
	}{
		{0, true}, {1, true}, {2, true}, {1, false}, {3, true}, {0, false}, {1, true}, {2, false},
	}
	for _, op := range ops {
		if op.add {
			g.Add(op.row)
		} else {
			g.Remove(op.row)
		}
		active[op.row] = op.add

		for _, e := range g.All() {
			want := uint(0)
			rows, _ := g.Dimension().Rows(e.Key)
			for row := range rows.Rows() {
				if active[row] {
					want++
				}
			}
			assert.Equal(t, want, e.Value.Count)
			assert.Len(t, e.Value.Items, int(want))
		}
	}
}

func TestAllOrderAndExtrema(t *testing.T) {
	_, g := fixture(t)
	g.Add(0)
	g.Add(1)
	g.Add(2)

	all := g.All()
	require.Len(t, all, 2)
	assert.Equal(t, dimension.Single(metadata.Float(0)), all[0].Key)
	assert.Equal(t, 2, g.Size())
	assert.Equal(t, []float64{2, 1}, g.Counts())
	assert.Equal(t, extrema.Extrema{Min: 1, Max: 2}, g.CountExtrema(0))
	assert.Equal(t, extrema.Extrema{Min: 0.5, Max: 2.5}, g.CountExtrema(2))
	assert.Equal(t, []string{"stress"}, g.Tracked())
}

func TestStateRestore(t *testing.T) {
	store, g := fixture(t)
	for row := 0; row < 4; row++ {
		g.Add(row)
	}
	g.Remove(1)

	s, err := g.State()
	require.NoError(t, err)

	_, fresh := fixture(t)
	fresh.store = store
	require.NoError(t, fresh.Restore(s))

	for i, e := range g.All() {
		got := fresh.All()[i]
		assert.Equal(t, e.Key, got.Key)
		assert.Equal(t, e.Value.Count, got.Value.Count)
		assert.Equal(t, e.Value.Extrema, got.Value.Extrema)
		assert.Len(t, got.Value.Items, len(e.Value.Items))
	}
	assert.True(t, g.Members().Equals(fresh.Members()))

	// Behaves like the original afterwards.
	fresh.Remove(0)
	low, _ := fresh.Get(dimension.Single(metadata.Float(0)))
	assert.Zero(t, low.Count)
	assert.Equal(t, 0.5, low.Extrema["stress"].Max)
}

func TestRestoreInconsistentState(t *testing.T) {
	captured := func(t *testing.T) (*Group, State) {
		t.Helper()
		_, g := fixture(t)
		for row := 0; row < 4; row++ {
			g.Add(row)
		}
		s, err := g.State()
		require.NoError(t, err)
		return g, s
	}

	cases := map[string]func(t *testing.T, s *State){
		"MemberOutOfRange": func(t *testing.T, s *State) {
			data, err := bitmap.Of(0, 1, 2, 3, 99).MarshalBinary()
			require.NoError(t, err)
			s.Members = data
		},
		"MemberWithoutItem": func(t *testing.T, s *State) {
			s.Entries[0].Items = s.Entries[0].Items[:1]
			s.Entries[0].Count = 1
		},
		"CountMismatch": func(t *testing.T, s *State) {
			s.Entries[0].Count = 7
		},
		"ItemInWrongBin": func(t *testing.T, s *State) {
			s.Entries[1].Items = append(s.Entries[1].Items, s.Entries[0].Items[0])
			s.Entries[1].Count++
		},
		"DuplicateItem": func(t *testing.T, s *State) {
			s.Entries[0].Items = append(s.Entries[0].Items, s.Entries[0].Items[0])
			s.Entries[0].Count++
		},
		"CorruptMembers": func(t *testing.T, s *State) {
			s.Members = []byte{1, 2, 3}
		},
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			g, s := captured(t)
			before := g.Members().Clone()
			corrupt(t, &s)

			require.Error(t, g.Restore(s))
			assert.True(t, before.Equals(g.Members()), "a failed restore leaves the group unchanged")
			low, _ := g.Get(dimension.Single(metadata.Float(0)))
			assert.Equal(t, uint(2), low.Count)
		})
	}
}

func TestRestoreUnknownRecord(t *testing.T) {
	_, g := fixture(t)
	s, err := g.State()
	require.NoError(t, err)
	s.Entries[0].Items = []metadata.RecordID{999}
	assert.Error(t, g.Restore(s))
}
