package sink

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// Stats is a point-in-time snapshot of sink activity.
type Stats struct {
	Path        string
	Table       string
	Created     bool
	SchemaExecs int64 // CREATE TABLE statements executed
	Inserts     int64
	Skipped     int64 // unconfigured records
	Failures    int64
	RowsByTable map[string]int64
}

// counters are updated under the write lock but read without it.
type counters struct {
	schemaExecs atomic.Int64
	inserts     atomic.Int64
	skipped     atomic.Int64
	failures    atomic.Int64
	rows        *xsync.Map[string, *atomic.Int64]
}

func newCounters() *counters {
	return &counters{rows: xsync.NewMap[string, *atomic.Int64]()}
}

func (c *counters) addRow(table string) {
	c.inserts.Add(1)
	n, _ := c.rows.LoadOrStore(table, &atomic.Int64{})
	n.Add(1)
}

func (c *counters) snapshot() Stats {
	st := Stats{
		SchemaExecs: c.schemaExecs.Load(),
		Inserts:     c.inserts.Load(),
		Skipped:     c.skipped.Load(),
		Failures:    c.failures.Load(),
		RowsByTable: make(map[string]int64),
	}
	c.rows.Range(func(table string, n *atomic.Int64) bool {
		st.RowsByTable[table] = n.Load()
		return true
	})
	return st
}
