package database

// Atomic batches.
//
// SurrealDB transactions here are BATCH-BASED: statements accumulate in
// memory and execute together inside BEGIN TRANSACTION / COMMIT TRANSACTION
// at Execute time. All statements succeed or fail as one unit; there is no
// isolation between Add() calls before Execute.
//
// Statements added to the same batch frequently bind the same variable name
// (the deletion cascade binds $user_id in every statement), so each Add
// namespaces its variables ($user_id -> $v1_user_id) before merging them.

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// AtomicBatch accumulates statements that must succeed or fail together.
type AtomicBatch struct {
	statements []string
	vars       map[string]interface{}
	varCounter uint64
}

// NewAtomicBatch creates an empty batch.
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{
		vars: make(map[string]interface{}),
	}
}

// Add appends a statement to the batch, namespacing its variables so that
// statements binding the same names cannot collide. Longer names are
// rewritten first so $user_id is never clobbered by a $user rewrite.
// Returns the batch for chaining.
func (b *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	for _, name := range names {
		b.varCounter++
		unique := fmt.Sprintf("v%d_%s", b.varCounter, name)
		query = strings.ReplaceAll(query, "$"+name, "$"+unique)
		b.vars[unique] = vars[name]
	}
	b.statements = append(b.statements, query)
	return b
}

// Build returns the complete transaction query and merged variables.
// An empty batch builds to an empty query.
func (b *AtomicBatch) Build() (string, map[string]interface{}) {
	if len(b.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range b.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), b.vars
}

// Execute runs the batch as a single transaction. An empty batch is a no-op.
func (b *AtomicBatch) Execute(ctx context.Context, db Database) error {
	query, vars := b.Build()
	if query == "" {
		return nil
	}

	_, err := db.Query(ctx, query, vars)
	return err
}
