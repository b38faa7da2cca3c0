package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// QuotaCounter is a named counter that expires, e.g. one day's quiz
// generations.
type QuotaCounter struct {
	ent.Schema
}

func (QuotaCounter) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("name").
			Immutable(),
		field.Int("value").
			Default(0),
		field.Int64("expires_at").
			Comment("Unix milliseconds after which the counter reads as zero"),
	}
}
