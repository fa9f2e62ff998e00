package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Table(t *testing.T) {
	r := NewReport("Pull requests", "Open", "Closed")
	r.AddRow(3, 7)

	assert.Equal(t, "Pull requests\n-------------\nOpen\tClosed\n3\t7\n\n", r.Table())
}

func TestReport_TableWithoutRows(t *testing.T) {
	r := NewReport("Contributors", "Login", "Contributions")

	assert.Equal(t, "Contributors\n------------\nLogin\tContributions\n\n\n", r.Table())
}

func TestReport_JSON(t *testing.T) {
	r := NewReport("Contributors", "Login", "Contributions")
	r.AddRow("dm-logv", 12)
	r.AddRow("octocat", 3)

	data, err := json.Marshal(r.JSON())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Contributors",
		"headers": ["Login", "Contributions"],
		"results": [
			{"Login": "dm-logv", "Contributions": 12},
			{"Login": "octocat", "Contributions": 3}
		]
	}`, string(data))
}

func TestReport_JSONKeepsHeaderOrder(t *testing.T) {
	r := NewReport("Stale issues", "Stale", "Median age (days)", "Max age (days)")
	r.AddRow(2, 37.5, 45.0)

	data, err := json.Marshal(r.JSON())
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"Stale issues","headers":["Stale","Median age (days)","Max age (days)"],`+
			`"results":[{"Stale":2,"Median age (days)":37.5,"Max age (days)":45}]}`,
		string(data))

	indented, err := json.MarshalIndent(r.JSON(), "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(indented), "\"Stale\": 2,\n      \"Median age (days)\": 37.5,\n      \"Max age (days)\": 45\n")
}

func TestJSONRow_Get(t *testing.T) {
	r := NewReport("Pull requests", "Open", "Closed")
	r.AddRow(3, 7)

	row := r.JSON().Results[0]
	closed, ok := row.Get("Closed")
	assert.True(t, ok)
	assert.Equal(t, 7, closed)
	_, ok = row.Get("Merged")
	assert.False(t, ok)
}

func TestReport_AddRowMismatch(t *testing.T) {
	r := NewReport("x", "a", "b")
	assert.Panics(t, func() { r.AddRow(1) })
}
