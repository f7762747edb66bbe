package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestDetect_Precedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Shape
	}{
		{name: "bare array", raw: `[{"id":"1"}]`, want: ShapeArray},
		{name: "empty array", raw: `[]`, want: ShapeArray},
		{name: "keyed wrapper", raw: `{"categories":[{"id":"1"}]}`, want: ShapeKeyed},
		{name: "data wrapper", raw: `{"data":[{"id":"1"}]}`, want: ShapeData},
		{name: "keyed wins over data", raw: `{"categories":[],"data":[]}`, want: ShapeKeyed},
		{name: "null keyed falls through", raw: `{"categories":null,"data":[{"id":"1"}]}`, want: ShapeData},
		{name: "unrelated object", raw: `{"message":"hi"}`, want: ShapeNone},
		{name: "scalar", raw: `42`, want: ShapeNone},
		{name: "empty body", raw: ``, want: ShapeNone},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Detect(json.RawMessage(tt.raw), "categories"))
		})
	}
}

func TestList_AllShapesYieldSameElements(t *testing.T) {
	t.Parallel()

	want := []category{{ID: "1", Name: "Sopas"}, {ID: "2", Name: "Postres"}}
	inner := `[{"id":"1","name":"Sopas"},{"id":"2","name":"Postres"}]`

	shapes := []string{
		inner,
		`{"categories":` + inner + `}`,
		`{"data":` + inner + `}`,
	}
	for _, raw := range shapes {
		got := List[category](json.RawMessage(raw), "categories")
		assert.Equal(t, want, got, "shape %s", raw)
	}
}

func TestList_UnknownShapeIsEmptyNotNil(t *testing.T) {
	t.Parallel()

	tests := []string{
		`{"something":"else"}`,
		`{"data":null}`,
		`null`,
		`"oops"`,
		`{broken`,
	}
	for _, raw := range tests {
		got := List[category](json.RawMessage(raw), "categories")
		require.NotNil(t, got, "input %s", raw)
		assert.Empty(t, got, "input %s", raw)
	}
}

func TestDataList_FixedShape(t *testing.T) {
	t.Parallel()

	got := DataList[category](json.RawMessage(`{"data":[{"id":"7","name":"Vins"}]}`))
	require.Len(t, got, 1)
	assert.Equal(t, "Vins", got[0].Name)

	// Fixed-shape endpoints do not get the entity-keyed fallback.
	got = DataList[category](json.RawMessage(`{"categories":[{"id":"7"}]}`))
	assert.Empty(t, got)
}

func TestItem_WrappedAndBare(t *testing.T) {
	t.Parallel()

	wrapped, err := Item[category](json.RawMessage(`{"data":{"id":"1","name":"Carns"}}`))
	require.NoError(t, err)
	assert.Equal(t, category{ID: "1", Name: "Carns"}, wrapped)

	bare, err := Item[category](json.RawMessage(`{"id":"2","name":"Peixos"}`))
	require.NoError(t, err)
	assert.Equal(t, category{ID: "2", Name: "Peixos"}, bare)
}
