// Package database executes the generated SQL against the product database.
//
// Statements are whatever text the language model produced, executed verbatim;
// there is no validation or sanitization layer. A fresh connection is opened
// per call and released on every path, including errors. No connection is ever
// held across turns.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConnConfig holds the connection parameters for the product database.
type ConnConfig struct {
	Host     string
	Port     int
	User     string
	Password string // empty = omitted from the connection string entirely
	Database string
	SSLMode  string
}

// quoteDSNValue quotes a value for the key=value DSN format.
// Within single quotes, backslashes and single quotes are escaped.
func quoteDSNValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// ConnString returns the pgx DSN.
// An empty password is omitted rather than passed as an empty secret, so
// trust and peer authentication setups work unchanged.
func (c ConnConfig) ConnString() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Host),
		fmt.Sprintf("port=%d", c.Port),
		fmt.Sprintf("user=%s", c.User),
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(c.Password))
	}
	parts = append(parts,
		fmt.Sprintf("dbname=%s", c.Database),
		fmt.Sprintf("sslmode=%s", c.SSLMode),
	)
	return strings.Join(parts, " ")
}

// Result is the ordered row set produced by one execution.
// Values are untyped as far as the pipeline is concerned; they are rendered
// to text and passed through as prompt context.
type Result struct {
	Columns []string
	Rows    [][]string
}

// String renders the result for prompt embedding, one tuple per line.
func (r *Result) String() string {
	if len(r.Rows) == 0 {
		return "(no rows)"
	}
	var b strings.Builder
	b.WriteString(strings.Join(r.Columns, " | "))
	for _, row := range r.Rows {
		b.WriteString("\n(")
		b.WriteString(strings.Join(row, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Executor runs generated SQL against the configured database.
type Executor struct {
	cfg    ConnConfig
	logger *slog.Logger
}

// NewExecutor creates an Executor. logger may not be nil.
func NewExecutor(cfg ConnConfig, logger *slog.Logger) *Executor {
	if logger == nil {
		panic("NewExecutor: logger is required")
	}
	return &Executor{cfg: cfg, logger: logger}
}

// Execute opens a fresh connection, runs the statement and fetches all rows.
// It returns either rows or an error, never both. The connection and row
// cursor are released on every path before returning.
func (e *Executor) Execute(ctx context.Context, sql string) (*Result, error) {
	conn, err := pgx.Connect(ctx, e.cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(ctx); closeErr != nil {
			e.logger.Warn("closing database connection", "error", closeErr)
		}
	}()

	// The simple protocol makes the server return every value in its text
	// format, so numeric, uuid, timestamp and friends arrive as the text a
	// reader expects ("49.90"), not as decoded Go structs.
	rows, err := conn.Query(ctx, sql, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	result := &Result{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		raw := rows.RawValues()
		row := make([]string, len(raw))
		for i, v := range raw {
			if v == nil {
				row[i] = "NULL"
				continue
			}
			// string() copies: RawValues memory is reused by the next Next().
			row[i] = string(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}

	e.logger.Debug("query executed", "columns", len(result.Columns), "rows", len(result.Rows))
	return result, nil
}
