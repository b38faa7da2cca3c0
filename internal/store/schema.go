package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	llmRequestsTableName = "llm_request_events"
	quotaTableName       = "quota_counters"
)

var (
	// llmRequestColumns holds the columns of the LLM request log.
	llmRequestColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "response_body", Type: field.TypeString, Nullable: true, Size: 2147483647},
	}
	llmRequestsTable = &schema.Table{
		Name:       llmRequestsTableName,
		Columns:    llmRequestColumns,
		PrimaryKey: []*schema.Column{llmRequestColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmRequestColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestColumns[5]}},
		},
	}

	// quotaColumns holds the daily quota counters. expires_at is Unix
	// milliseconds.
	quotaColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString},
		{Name: "value", Type: field.TypeInt, Default: 0},
		{Name: "expires_at", Type: field.TypeInt64},
	}
	quotaTable = &schema.Table{
		Name:       quotaTableName,
		Columns:    quotaColumns,
		PrimaryKey: []*schema.Column{quotaColumns[0]},
	}

	tables = []*schema.Table{llmRequestsTable, quotaTable}
)

// migrate creates or updates every table owned by the store.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}
