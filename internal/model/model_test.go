package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkHourRequestHours(t *testing.T) {
	for body, want := range map[string]FlexNumber{
		`{"Stunden":2.5}`:   "2.5",
		`{"Stunden":"3"}`:   "3",
		`{"Stunden":null}`:  "",
		`{"Stunden":"abc"}`: "abc",
		`{}`:                "",
	} {
		var req WorkHourRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, want, req.Hours, body)
	}

	var req WorkHourRequest
	assert.Error(t, json.Unmarshal([]byte(`{"Stunden":true}`), &req))
}

func TestWorkHourRequestFieldNames(t *testing.T) {
	var req WorkHourRequest
	require.NoError(t, json.Unmarshal([]byte(`{"Datum":"2024-05-01","Tätigkeit":"Hecke schneiden","Stunden":1}`), &req))
	assert.Equal(t, "2024-05-01", req.Date)
	assert.Equal(t, "Hecke schneiden", req.Description)
}
