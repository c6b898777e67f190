package domain

// Finding is one flagged resource reported by a cost-category Trusted Advisor check.
type Finding struct {
	CheckID    string
	CheckName  string
	ResourceID string
	Status     string
	Region     string
	// Metadata follows the check's declared metadata keys, one field per key.
	Metadata []Field
}

// Fields flattens the finding into an ordered record.
func (f Finding) Fields() []Field {
	fields := make([]Field, 0, 3+len(f.Metadata))
	fields = append(fields,
		Field{Key: "Check Name", Value: f.CheckName},
		Field{Key: "Resource ID", Value: f.ResourceID},
		Field{Key: "Status", Value: f.Status},
	)
	return append(fields, f.Metadata...)
}
