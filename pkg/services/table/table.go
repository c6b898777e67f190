package table

import (
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/de-tools/finops-agent/pkg/models/domain"
)

var currencyStripper = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "¥", "")

// DropConstantColumns removes every column holding at most one distinct value.
// Null cells, and rows lacking the column, are not counted as values.
func DropConstantColumns(t *domain.Table) []string {
	var dropped []string
	for _, col := range slices.Clone(t.Columns) {
		if isConstant(t.Column(col)) {
			t.DropColumn(col)
			dropped = append(dropped, col)
		}
	}
	return dropped
}

func isConstant(values []any) bool {
	var first any
	for _, v := range values {
		if v == nil {
			continue
		}
		if first == nil {
			first = v
			continue
		}
		if !reflect.DeepEqual(v, first) {
			return false
		}
	}
	return true
}

// SavingsColumn returns the first column, in column order, whose name mentions savings.
func SavingsColumn(t domain.Table) (string, bool) {
	for _, col := range t.Columns {
		if strings.Contains(strings.ToLower(col), "saving") {
			return col, true
		}
	}
	return "", false
}

// ParseAmount turns a money-like value into a number. Thousands separators and
// currency symbols are ignored. Anything unparseable, NaN or infinite yields ok=false.
func ParseAmount(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case int:
		return float64(val), true
	case string:
		s := strings.TrimSpace(currencyStripper.Replace(val))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CoerceNumeric rewrites a column in place so every cell is a float64 or nil.
func CoerceNumeric(t *domain.Table, col string) {
	for _, row := range t.Rows {
		if f, ok := ParseAmount(row[col]); ok {
			row[col] = f
		} else {
			row[col] = nil
		}
	}
}

// SortDescending orders rows by a numeric column, largest first, nulls last.
// The sort is stable so equal values keep their original order.
func SortDescending(t *domain.Table, col string) {
	slices.SortStableFunc(t.Rows, func(a, b domain.Row) int {
		av, aok := a[col].(float64)
		bv, bok := b[col].(float64)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		case av > bv:
			return -1
		case av < bv:
			return 1
		default:
			return 0
		}
	})
}

// SortBySavings coerces the savings column, if the table has one, and sorts by it.
// It reports the column used.
func SortBySavings(t *domain.Table) (string, bool) {
	col, ok := SavingsColumn(*t)
	if !ok {
		return "", false
	}
	CoerceNumeric(t, col)
	SortDescending(t, col)
	return col, true
}
