package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var dbTracer = otel.Tracer("finance.db")

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// DB wraps *sql.DB so every query method opens a trace span carrying the
// sanitized statement.
type DB struct {
	*sql.DB
}

func New(connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

func startQuerySpan(ctx context.Context, name, query string) (context.Context, trace.Span) {
	return dbTracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", sqlVerb(query)),
		attribute.String("db.statement", sanitizeQuery(query)),
	))
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx, span := startQuerySpan(ctx, "db.Query", query)
	defer span.End()

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		recordSpanError(span, err)
	}
	return rows, err
}

// tracedRow keeps the span open until Scan, since sql.Row reports every
// error there, sql.ErrNoRows included.
type tracedRow struct {
	row  *sql.Row
	span trace.Span
}

func (r *tracedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if r.span != nil {
		if err != nil {
			recordSpanError(r.span, err)
		}
		r.span.End()
		r.span = nil
	}
	return err
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *tracedRow {
	ctx, span := startQuerySpan(ctx, "db.QueryRow", query)
	return &tracedRow{
		row:  db.DB.QueryRowContext(ctx, query, args...),
		span: span,
	}
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, span := startQuerySpan(ctx, "db.Exec", query)
	defer span.End()

	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		recordSpanError(span, err)
	}
	return result, err
}

// sanitizeQuery masks string and numeric literals before a statement is
// attached to a span, so account names, emails and amounts never end up
// in trace storage. $N placeholders carry no data and pass through.
func sanitizeQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q))

	i := 0
	for i < len(q) {
		ch := q[i]

		if ch == '\'' {
			b.WriteString("'?'")
			i++
			for i < len(q) {
				if q[i] == '\'' {
					if i+1 < len(q) && q[i+1] == '\'' {
						i += 2 // '' escape inside the literal
						continue
					}
					i++
					break
				}
				i++
			}
			continue
		}

		if unicode.IsDigit(rune(ch)) && (i == 0 || !isIdentChar(q[i-1])) {
			if i > 0 && q[i-1] == '$' {
				b.WriteByte(ch)
				i++
				continue
			}
			b.WriteByte('?')
			for i < len(q) && (unicode.IsDigit(rune(q[i])) || q[i] == '.') {
				i++
			}
			continue
		}

		b.WriteByte(ch)
		i++
	}

	const maxStatementLen = 256
	s := b.String()
	if len(s) > maxStatementLen {
		return s[:maxStatementLen] + "..."
	}
	return s
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func sqlVerb(q string) string {
	q = strings.TrimSpace(q)
	if idx := strings.IndexByte(q, ' '); idx > 0 {
		return strings.ToUpper(q[:idx])
	}
	return strings.ToUpper(q)
}
