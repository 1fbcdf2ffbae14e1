package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// InterviewEvent is one interview that reached a terminal outcome.
type InterviewEvent struct {
	ent.Schema
}

func (InterviewEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (InterviewEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Immutable(),
		field.Enum("outcome").
			Values("recommend", "exhausted", "no_match").
			Comment("Terminal state the interview ended in"),
		field.String("department").
			Default("").
			Comment("Top department, empty when nothing matched"),
		field.Text("symptoms").
			Default("[]").
			Comment("JSON array of reported and confirmed symptoms, normalized"),
		field.Int("question_count").
			Default(0),
		field.Int("negative_streak").
			Default(0),
		field.Float("top_score").
			Default(0),
		field.Int64("duration_ms").
			Default(0),
		field.Text("explanation").
			Default(""),
	}
}

func (InterviewEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
