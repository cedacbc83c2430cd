package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	bs, err := Marshal(point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, `{"x":1,"y":2}`, string(bs))

	var got point
	require.NoError(t, Unmarshal(bs, &got))
	assert.Equal(t, point{X: 1, Y: 2}, got)
}

func TestMarshalIndentAddsPrefixAndIndent(t *testing.T) {
	bs, err := MarshalIndent(point{X: 1, Y: 2}, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(bs), "\n  \"x\": 1")
}

func TestUnmarshalInvalidJSONReturnsJSONError(t *testing.T) {
	var got point
	err := Unmarshal([]byte(`{not json`), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal failed")
}
