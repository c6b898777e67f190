package domain

// ResultKind tells which shape a Result carries.
type ResultKind int

const (
	// ResultEmpty means the upstream call succeeded but had nothing to report.
	ResultEmpty ResultKind = iota
	// ResultRows means the result carries a table.
	ResultRows
)

func (k ResultKind) String() string {
	switch k {
	case ResultRows:
		return "ok"
	default:
		return "empty"
	}
}

// Result is the outcome of a successful fetch: either no data with a
// human-readable message, or a table of rows.
type Result struct {
	Kind    ResultKind
	Message string
	Table   Table
}

func EmptyResult(message string) Result {
	return Result{Kind: ResultEmpty, Message: message}
}

func RowsResult(t Table) Result {
	return Result{Kind: ResultRows, Table: t}
}

func (r Result) IsEmpty() bool {
	return r.Kind == ResultEmpty
}
