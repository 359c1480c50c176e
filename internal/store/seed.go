package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridline-labs/gridline/internal/grid"
	"github.com/gridline-labs/gridline/internal/schema"
)

// demoFields is the schema seeded into a fresh database.
var demoFields = []schema.FieldDefinition{
	{Key: "name", Label: "Name", Type: schema.TypeText, Sortable: true, Editable: true, Identifier: true},
	{Key: "email", Label: "Email", Type: schema.TypeEmail, Sortable: true, Editable: true},
	{Key: "status", Label: "Status", Type: schema.TypeSelect, Sortable: true, Editable: true},
	{Key: "company", Label: "Company", Type: schema.TypeText, Sortable: true, Editable: true},
	{Key: "phone", Label: "Phone", Type: schema.TypePhone, Editable: true},
	{Key: "signup", Label: "Signed Up", Type: schema.TypeDate, Sortable: true},
	{Key: "score", Label: "Score", Type: schema.TypeNumber, Sortable: true, Editable: true},
	{Key: "notes", Label: "Notes", Type: schema.TypeText, Editable: true},
}

var demoNames = []string{
	"Ada Lovelace", "Grace Hopper", "Barbara Liskov", "Katherine Johnson",
	"Margaret Hamilton", "Radia Perlman", "Frances Allen", "Shafi Goldwasser",
	"Lynn Conway", "Karen Sparck Jones", "Sophie Wilson", "Jean Bartik",
}

var demoCompanies = []string{"Acme Corp", "Globex", "Initech", "Umbrella", "Stark Industries"}

// Seed populates the database with the demo schema, a default view,
// and n generated records. Re-running keeps the existing view and adds
// more records.
func (s *Store) Seed(ctx context.Context, n int) error {
	for _, def := range demoFields {
		if err := s.UpsertField(ctx, def); err != nil {
			return err
		}
	}

	view := grid.ViewConfig{
		Name: "contacts",
		Columns: []grid.ViewColumn{
			{FieldKey: "name"},
			{FieldKey: "email"},
			{FieldKey: "status"},
			{FieldKey: "company"},
			{FieldKey: "signup"},
			{FieldKey: "score"},
			{FieldKey: "notes"},
		},
		SortField: "name",
		AutoSize:  true,
	}
	if _, err := s.GetViewByName(ctx, view.Name); err != nil {
		if !errors.Is(err, ErrViewNotFound) {
			return err
		}
		if _, err := s.CreateView(ctx, view); err != nil {
			return err
		}
	}

	for i := 0; i < n; i++ {
		name := demoNames[i%len(demoNames)]
		if i >= len(demoNames) {
			name = fmt.Sprintf("%s %d", name, i/len(demoNames)+1)
		}
		status := "Active"
		if i%11 == 0 {
			status = "Churned"
		}
		values := map[string]string{
			"name":    name,
			"email":   fmt.Sprintf("user%d@example.com", i),
			"status":  status,
			"company": demoCompanies[i%len(demoCompanies)],
			"phone":   fmt.Sprintf("+1 555 01%02d", i%100),
			"signup":  fmt.Sprintf("2025-%02d-%02d", i%12+1, i%28+1),
			"score":   fmt.Sprintf("%d", (i*37)%100),
		}
		if i%7 == 0 {
			values["notes"] = "Longstanding account with several escalations resolved"
		}
		if _, err := s.InsertRecord(ctx, values); err != nil {
			return err
		}
	}
	return nil
}
