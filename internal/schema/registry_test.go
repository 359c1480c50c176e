package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	def := FieldDefinition{Key: "email", Label: "Email", Type: TypeEmail, Editable: true}
	r.Register(def)

	assert.Equal(t, 1, r.Len(), "expected one field")

	got, ok := r.Lookup("email")
	assert.True(t, ok, "expected to find field by key")
	assert.Equal(t, def, got)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_RegisterReplacesEarlierDefinition(t *testing.T) {
	r := NewRegistry()

	r.Register(FieldDefinition{Key: "status", Label: "Status", Type: TypeText})
	r.Register(FieldDefinition{Key: "status", Label: "Stage", Type: TypeSelect})

	assert.Equal(t, 1, r.Len())
	got, _ := r.Lookup("status")
	assert.Equal(t, "Stage", got.Label)
	assert.Equal(t, TypeSelect, got.Type)
}

func TestRegistry_FirstIdentifierWins(t *testing.T) {
	r := NewRegistry()

	r.Register(FieldDefinition{Key: "name", Label: "Name", Type: TypeText, Identifier: true})
	r.Register(FieldDefinition{Key: "email", Label: "Email", Type: TypeEmail, Identifier: true})

	assert.Equal(t, "name", r.Identifier(), "first identifier registration sticks")

	// The flag is stripped from the loser, so at most one definition
	// carries it.
	email, ok := r.Lookup("email")
	assert.True(t, ok)
	assert.False(t, email.Identifier)

	// Re-registering the winner keeps it.
	r.Register(FieldDefinition{Key: "name", Label: "Full name", Type: TypeText, Identifier: true})
	assert.Equal(t, "name", r.Identifier())
}

func TestRegistry_KeysSorted(t *testing.T) {
	r := NewRegistry()

	r.Register(FieldDefinition{Key: "status"})
	r.Register(FieldDefinition{Key: "email"})
	r.Register(FieldDefinition{Key: "name"})

	assert.Equal(t, []string{"email", "name", "status"}, r.Keys())
}
