package medicine

// Medicine is a single inventory record.
// All seven fields are required for a persisted record.
type Medicine struct {
	Name        string  `json:"name" yaml:"name"`
	Brand       string  `json:"brand" yaml:"brand"`
	DateOfEntry string  `json:"date_of_entry" yaml:"date_of_entry"` // ISO 8601
	Price       float64 `json:"price" yaml:"price"`
	BestBefore  string  `json:"best_before" yaml:"best_before"` // YYYY-MM-DD
	Quantity    int64   `json:"quantity" yaml:"quantity"`
	Type        string  `json:"type" yaml:"type"`
}

// SuggestedTypes lists the type labels offered to people entering records.
// The store accepts any non-empty type.
var SuggestedTypes = []string{"Tablet", "Capsule", "Syrup", "Cream", "Injection"}

// Normalized returns a copy of m with its key normalized and text fields trimmed.
func (m Medicine) Normalized() Medicine {
	m.Name = NormalizeName(m.Name)
	m.Brand = trim(m.Brand)
	m.DateOfEntry = trim(m.DateOfEntry)
	m.BestBefore = trim(m.BestBefore)
	m.Type = trim(m.Type)
	return m
}
