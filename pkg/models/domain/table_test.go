package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_ColumnsInFirstAppearanceOrder(t *testing.T) {
	tbl := NewTable([][]Field{
		{{Key: "b", Value: "1"}, {Key: "a", Value: "2"}},
		{{Key: "c", Value: true}, {Key: "b", Value: "3"}},
	})

	assert.Equal(t, []string{"b", "a", "c"}, tbl.Columns)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []any{"2", nil}, tbl.Column("a"))
}

func TestTable_MarshalJSON(t *testing.T) {
	tbl := NewTable([][]Field{
		{{Key: "Service", Value: "Amazon EC2"}, {Key: "Amount", Value: 12.5}, {Key: "Flag", Value: false}},
		{{Key: "Service", Value: "Amazon S3"}, {Key: "Amount", Value: nil}},
	})

	data, err := json.Marshal(tbl)

	require.NoError(t, err)
	assert.Equal(t,
		`[{"Service":"Amazon EC2","Amount":12.5,"Flag":false},{"Service":"Amazon S3","Amount":null,"Flag":null}]`,
		string(data))
}

func TestTable_MarshalJSON_Empty(t *testing.T) {
	data, err := json.Marshal(Table{})

	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestTable_DropColumn(t *testing.T) {
	tbl := NewTable([][]Field{{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}})

	tbl.DropColumn("a")
	tbl.DropColumn("missing")

	assert.Equal(t, []string{"b"}, tbl.Columns)
	assert.Equal(t, Row{"b": "2"}, tbl.Rows[0])
}

func TestFinding_Fields(t *testing.T) {
	f := Finding{
		CheckName:  "Low Utilization Amazon EC2 Instances",
		ResourceID: "i-123",
		Status:     "warning",
		Metadata:   []Field{{Key: "Region", Value: "us-east-1"}},
	}

	assert.Equal(t, []Field{
		{Key: "Check Name", Value: "Low Utilization Amazon EC2 Instances"},
		{Key: "Resource ID", Value: "i-123"},
		{Key: "Status", Value: "warning"},
		{Key: "Region", Value: "us-east-1"},
	}, f.Fields())
}
