// Package record describes loggable events as an ordered list of named, typed,
// value-producing fields and renders them into SQLite DDL and DML.
//
// A concrete record composes a *Descriptor, registers its fields while it is
// being constructed, and hands itself to the sink:
//
//	type LogRec struct {
//		*record.Descriptor
//		msg string
//	}
//
//	func NewLogRec(msg string) *LogRec {
//		r := &LogRec{Descriptor: record.New(), msg: msg}
//		r.SetTableName("events")
//		r.MustAddField("MSG", "TEXT", func() string { return r.msg })
//		return r
//	}
package record

import (
	"strings"
	"time"
)

// Record is what the sink needs from a log event: the CREATE TABLE text and a
// parameterized INSERT. Any type embedding *Descriptor satisfies it.
type Record interface {
	Schema() string
	InsertStatement() Statement
}

// Descriptor accumulates field descriptions for one log event. It is meant to
// be built, logged once and discarded; it is not safe for concurrent mutation.
type Descriptor struct {
	fields []Field
	table  string
	schema string
}

// New returns a descriptor whose first field is MOMENT, captured now.
func New() *Descriptor {
	return NewAt(time.Now())
}

// NewAt is New with an explicit moment.
func NewAt(at time.Time) *Descriptor {
	d := &Descriptor{}
	d.fields = append(d.fields, momentField(at))
	d.refresh()
	return d
}

// AddField appends a column. On error the field list is left untouched.
func (d *Descriptor) AddField(name, typ string, value Producer) error {
	f := Field{Name: name, Type: typ, Value: value}
	if err := validateField(f, d.fields); err != nil {
		return err
	}
	d.fields = append(d.fields, f)
	d.refresh()
	return nil
}

// MustAddField is AddField for constant field lists; it panics on error.
func (d *Descriptor) MustAddField(name, typ string, value Producer) {
	if err := d.AddField(name, typ, value); err != nil {
		panic("record: " + err.Error())
	}
}

// SetTableName assigns the destination table. An empty name leaves the
// descriptor unusable (empty schema) but is not an error.
func (d *Descriptor) SetTableName(name string) {
	d.table = name
	d.refresh()
}

// TableName returns the destination table.
func (d *Descriptor) TableName() string {
	return d.table
}

// Fields returns a copy of the registered fields in column order.
func (d *Descriptor) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Columns returns the column names in registration order.
func (d *Descriptor) Columns() []string {
	out := make([]string, len(d.fields))
	for i, f := range d.fields {
		out[i] = f.Name
	}
	return out
}

// Schema returns the CREATE TABLE statement, or "" when the table name or the
// field list is empty.
func (d *Descriptor) Schema() string {
	d.refresh()
	return d.schema
}

// InsertStatement renders a parameterized INSERT, invoking every producer
// exactly once in column order. It is empty when Schema is empty.
func (d *Descriptor) InsertStatement() Statement {
	if d.schema == "" {
		return Statement{}
	}
	args := make([]any, len(d.fields))
	for i, f := range d.fields {
		args[i] = f.Value()
	}
	return Statement{
		SQL:  d.insertPrefix() + " VALUES (" + placeholders(len(d.fields)) + ")",
		Args: args,
	}
}

// WriteQuery renders the INSERT with literal values, for display. Quotes in
// values are doubled. The sink never executes this form.
func (d *Descriptor) WriteQuery() string {
	st := d.InsertStatement()
	if st.Empty() {
		return ""
	}
	vals := make([]string, len(st.Args))
	for i, v := range st.Args {
		vals[i] = quoteLiteral(v)
	}
	return d.insertPrefix() + " VALUES (" + strings.Join(vals, ",") + ")"
}

func (d *Descriptor) refresh() {
	if d.table == "" || len(d.fields) == 0 {
		d.schema = ""
		return
	}
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(d.table)
	b.WriteByte('(')
	for i, f := range d.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteByte(' ')
		b.WriteString(f.Type)
	}
	b.WriteByte(')')
	d.schema = b.String()
}

func (d *Descriptor) insertPrefix() string {
	return "INSERT INTO " + d.table + " (" + strings.Join(d.Columns(), ",") + ")"
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
