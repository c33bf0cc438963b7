package tradingview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Builder(t *testing.T) {
	q := NewQuery("italy").
		Where(InRange(ColRSI, 40, 70), Equal(ColSector, "Finance")).
		OrderBy(ColVolume, false).
		Limit(25)

	req := q.request()
	assert.Equal(t, []string{"italy"}, req.Markets)
	assert.Equal(t, [2]int{0, 25}, req.Range)
	assert.Equal(t, &Sort{SortBy: ColVolume, SortOrder: SortAsc}, req.Sort)
	require.Len(t, req.Filter, 2)
	assert.Equal(t, OpInRange, req.Filter[0].Operation)
	assert.Equal(t, []float64{40, 70}, req.Filter[0].Right)
}

func TestQuery_LimitKeepsDefault(t *testing.T) {
	q := NewQuery("america").Limit(0)
	assert.Equal(t, defaultSize, q.Size)
}

func TestQuery_EmptyFilterEncodesAsArray(t *testing.T) {
	data, err := json.Marshal(NewQuery("america").request())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"filter":[]`)
}

func TestQuery_Fingerprint(t *testing.T) {
	a := DefaultQuery("america", 100)
	b := DefaultQuery("america", 100)
	c := DefaultQuery("america", 101)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)
}

func TestNewQuery_CopiesColumns(t *testing.T) {
	q := NewQuery("america")
	q.Columns[0] = "changed"
	assert.Equal(t, ColName, Columns[0])
}
