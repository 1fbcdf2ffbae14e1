package store

import (
	"testing"

	"entgo.io/ent"

	"github.com/abhisek/triagez/ent/schema"
)

func tableColumns(t *testing.T, s *Store, table string) map[string]bool {
	t.Helper()
	rows, err := s.DB().Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("table info %s: %v", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan column: %v", err)
		}
		cols[name] = true
	}
	return cols
}

// Each ent schema field must have a column of the same name in the
// hand-written migration.
func TestMigrationMatchesSchema(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		table  string
		fields []ent.Field
	}{
		{tableLLMEvents, schema.LLMRequestEvent{}.Fields()},
		{tableInterviewEvents, schema.InterviewEvent{}.Fields()},
	}

	mixinFields := schema.EventMixin{}.Fields()
	for _, tt := range tests {
		cols := tableColumns(t, s, tt.table)
		fields := append(append([]ent.Field{}, mixinFields...), tt.fields...)
		for _, f := range fields {
			name := f.Descriptor().Name
			if !cols[name] {
				t.Errorf("%s: missing column for field %q", tt.table, name)
			}
		}
	}
}

func TestOutcomeEnumMatchesSchema(t *testing.T) {
	var values []string
	for _, f := range (schema.InterviewEvent{}).Fields() {
		d := f.Descriptor()
		if d.Name != "outcome" {
			continue
		}
		for _, e := range d.Enums {
			values = append(values, e.V)
		}
	}

	want := []string{"recommend", "exhausted", "no_match"}
	if len(values) != len(want) {
		t.Fatalf("outcome values = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("outcome[%d] = %q, want %q", i, values[i], want[i])
		}
	}
}
