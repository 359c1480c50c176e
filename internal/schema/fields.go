package schema

// FieldType is the semantic type of a field's values.
type FieldType string

// Known field types. The layout pipeline only branches on broad shape
// (numeric vs. short fixed-format vs. free text), so unknown types are
// treated as text.
const (
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeBool     FieldType = "bool"
	TypeDate     FieldType = "date"
	TypeEmail    FieldType = "email"
	TypePhone    FieldType = "phone"
	TypeSelect   FieldType = "select"
	TypeURL      FieldType = "url"
	TypeCurrency FieldType = "currency"
)

// FieldDefinition is the per-column schema owned by the registry.
// Read-only to the grid core.
type FieldDefinition struct {
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	Type       FieldType `json:"type"`
	Sortable   bool      `json:"sortable"`
	Editable   bool      `json:"editable"`
	StorageKey string    `json:"storage_key,omitempty"` // underlying column name, defaults to Key
	Identifier bool      `json:"identifier"`            // the record's primary identifying field
}

// Storage returns the underlying storage key, falling back to Key.
func (f FieldDefinition) Storage() string {
	if f.StorageKey != "" {
		return f.StorageKey
	}
	return f.Key
}

// Numeric reports whether the field's values are numbers.
func (f FieldDefinition) Numeric() bool {
	return f.Type == TypeNumber || f.Type == TypeCurrency
}

// ShortFormat reports whether values come in a short fixed format
// (dates, booleans, select options) that tolerates tight columns.
func (f FieldDefinition) ShortFormat() bool {
	switch f.Type {
	case TypeBool, TypeDate, TypeSelect:
		return true
	}
	return false
}
