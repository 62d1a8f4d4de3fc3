package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/maypok86/otter"
	"github.com/zeebo/xxh3"
)

// shaped is implemented by records that can report their table and columns.
// *record.Descriptor implements it; records that don't skip the shape check.
type shaped interface {
	TableName() string
	Columns() []string
}

// shapeCache remembers which (table, columns) shapes were already verified
// against the live table, so the column lookup runs once per shape.
type shapeCache struct {
	verified otter.Cache[uint64, struct{}]
}

func newShapeCache(size int) *shapeCache {
	if size <= 0 {
		size = DefaultShapeCacheSize
	}
	cache, err := otter.MustBuilder[uint64, struct{}](size).
		Cost(func(_ uint64, _ struct{}) uint32 { return 1 }).
		Build()
	if err != nil {
		panic("sink: failed to create shape cache: " + err.Error())
	}
	return &shapeCache{verified: cache}
}

func shapeKey(table string, cols []string) uint64 {
	return xxh3.HashString(strings.ToLower(table) + "\x00" + strings.ToLower(strings.Join(cols, ",")))
}

// check verifies that every column of rec exists in its table. Must be called
// with the sink write lock held.
func (c *shapeCache) check(ctx context.Context, s *Sink, rec shaped) error {
	table, cols := rec.TableName(), rec.Columns()
	key := shapeKey(table, cols)
	if _, ok := c.verified.Get(key); ok {
		return nil
	}

	existing, err := tableColumns(ctx, s.db, table)
	if err != nil {
		return &StorageError{Op: "inspect", Table: table, Err: err}
	}
	have := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		have[strings.ToLower(name)] = struct{}{}
	}
	var missing []string
	for _, col := range cols {
		if _, ok := have[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &StorageError{
			Op:    "insert",
			Table: table,
			Err:   fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ",")),
		}
	}

	c.verified.Set(key, struct{}{})
	return nil
}

func (c *shapeCache) close() {
	c.verified.Close()
}
