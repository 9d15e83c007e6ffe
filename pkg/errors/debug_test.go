package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func TestDumpCapturesPgxFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key", TableName: "products", Message: "duplicate key value"}
	err := Wrap(CodeConflict, fmt.Errorf("insert product: %w", pgErr), "product exists")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGConstraint != "products_sku_key" || d.PGTable != "products" {
		t.Fatalf("unexpected pg fields %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
	fields := d.Fields()
	if fields["pg_constraint"] != "products_sku_key" {
		t.Fatalf("expected pg_constraint field, got %v", fields)
	}
	if _, ok := fields["pg_column"]; ok {
		t.Fatal("empty pg fields should be skipped")
	}
}

func TestDumpCapturesPQFields(t *testing.T) {
	err := fmt.Errorf("query: %w", &pq.Error{Code: "42P01", Table: "categories", Message: "relation does not exist"})

	d := Dump(err)
	if d.PGCode != "42P01" || d.PGTable != "categories" {
		t.Fatalf("unexpected pq fields %+v", d)
	}
	if d.Code != "" {
		t.Fatalf("untyped error should not carry a code, got %s", d.Code)
	}
}

func TestDumpFlagsRedisNil(t *testing.T) {
	d := Dump(Wrap(CodeDependency, fmt.Errorf("get cart: %w", redis.Nil), "load cart"))
	if !d.RedisNil {
		t.Fatal("expected redis nil flag")
	}
	if !d.Retryable {
		t.Fatal("dependency errors are retryable")
	}
	if d.Fields()["redis_nil"] != true {
		t.Fatal("expected redis_nil field")
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || len(d.Chain) != 0 {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}
