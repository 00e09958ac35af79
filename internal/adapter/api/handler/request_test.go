package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt(t *testing.T) {
	var body struct {
		A flexInt `json:"a"`
		B flexInt `json:"b"`
		C flexInt `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 3, "b": " 12 ", "c": null}`), &body))
	assert.Equal(t, flexInt(3), body.A)
	assert.Equal(t, flexInt(12), body.B)
	assert.Equal(t, flexInt(0), body.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a": "three"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1.5}`), &body))
}
