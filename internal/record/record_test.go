package record

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedMoment = time.Date(2024, 3, 9, 7, 5, 3, 0, time.Local)

func TestNew_RegistersMomentFirst(t *testing.T) {
	d := NewAt(fixedMoment)
	fields := d.Fields()
	if len(fields) != 1 {
		t.Fatalf("fields: got %d, want 1", len(fields))
	}
	if fields[0].Name != MomentField || fields[0].Type != "TEXT" {
		t.Fatalf("first field: got %s %s, want MOMENT TEXT", fields[0].Name, fields[0].Type)
	}
	if got := fields[0].Value(); got != "2024-03-09 07-05-03" {
		t.Fatalf("moment: got %q, want %q", got, "2024-03-09 07-05-03")
	}
}

func TestMoment_CapturedAtConstruction(t *testing.T) {
	d := New()
	first := d.Fields()[0].Value()
	time.Sleep(1100 * time.Millisecond)
	if again := d.Fields()[0].Value(); again != first {
		t.Fatalf("moment changed between calls: %q -> %q", first, again)
	}
}

func TestSchema_ColumnsInRegistrationOrder(t *testing.T) {
	d := NewAt(fixedMoment)
	d.SetTableName("events")
	d.MustAddField("USER", "TEXT", Const("alice"))
	d.MustAddField("LEVEL", "INTEGER", Const("3"))
	d.MustAddField("MSG", "TEXT NOT NULL", Const("hello"))

	want := "CREATE TABLE IF NOT EXISTS events(MOMENT TEXT,USER TEXT,LEVEL INTEGER,MSG TEXT NOT NULL)"
	if got := d.Schema(); got != want {
		t.Fatalf("schema: got %q, want %q", got, want)
	}
	for _, col := range []string{"MOMENT TEXT", "USER TEXT", "LEVEL INTEGER", "MSG TEXT NOT NULL"} {
		if n := strings.Count(d.Schema(), col); n != 1 {
			t.Fatalf("column %q appears %d times", col, n)
		}
	}
}

func TestSchema_Idempotent(t *testing.T) {
	d := NewAt(fixedMoment)
	d.SetTableName("events")
	d.MustAddField("MSG", "TEXT", Const("x"))
	first := d.Schema()
	if second := d.Schema(); second != first {
		t.Fatalf("schema changed without mutation: %q vs %q", first, second)
	}
}

func TestSchema_EmptyTableName(t *testing.T) {
	d := NewAt(fixedMoment)
	d.MustAddField("MSG", "TEXT", Const("x"))
	if got := d.Schema(); got != "" {
		t.Fatalf("schema without table: got %q, want empty", got)
	}

	d.SetTableName("events")
	if d.Schema() == "" {
		t.Fatal("schema with table: got empty")
	}
	d.SetTableName("")
	if got := d.Schema(); got != "" {
		t.Fatalf("schema after clearing table: got %q, want empty", got)
	}
}

func TestAddField_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		field string
		typ   string
		value Producer
	}{
		{"empty name", "", "TEXT", Const("x")},
		{"empty type", "MSG", "", Const("x")},
		{"nil producer", "MSG", "TEXT", nil},
		{"not an identifier", "MSG; DROP TABLE x", "TEXT", Const("x")},
		{"leading digit", "1MSG", "TEXT", Const("x")},
		{"duplicate moment", "moment", "TEXT", Const("x")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewAt(fixedMoment)
			d.SetTableName("events")
			before := d.Schema()

			err := d.AddField(tc.field, tc.typ, tc.value)
			if !errors.Is(err, ErrInvalidField) {
				t.Fatalf("err: got %v, want ErrInvalidField", err)
			}
			if got := len(d.Fields()); got != 1 {
				t.Fatalf("fields after rejected add: got %d, want 1", got)
			}
			if got := d.Schema(); got != before {
				t.Fatalf("schema after rejected add: got %q, want %q", got, before)
			}
		})
	}
}

func TestMustAddField_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewAt(fixedMoment).MustAddField("", "TEXT", Const("x"))
}

func TestInsertStatement_Parameterized(t *testing.T) {
	d := NewAt(fixedMoment)
	d.SetTableName("events")
	d.MustAddField("USER", "TEXT", Const("alice"))
	d.MustAddField("MSG", "TEXT", Const("it's"))

	st := d.InsertStatement()
	wantSQL := "INSERT INTO events (MOMENT,USER,MSG) VALUES (?,?,?)"
	if st.SQL != wantSQL {
		t.Fatalf("sql: got %q, want %q", st.SQL, wantSQL)
	}
	if len(st.Args) != 3 || st.Args[1] != "alice" || st.Args[2] != "it's" {
		t.Fatalf("args: got %v", st.Args)
	}
}

func TestInsertStatement_ProducersCalledOncePerRender(t *testing.T) {
	d := NewAt(fixedMoment)
	d.SetTableName("events")
	calls := 0
	msg := "first"
	d.MustAddField("MSG", "TEXT", func() string {
		calls++
		return msg
	})

	if got := d.InsertStatement().Args[1]; got != "first" {
		t.Fatalf("first render: got %v", got)
	}
	msg = "second"
	if got := d.InsertStatement().Args[1]; got != "second" {
		t.Fatalf("second render should read live value: got %v", got)
	}
	if calls != 2 {
		t.Fatalf("producer calls: got %d, want 2", calls)
	}
}

func TestWriteQuery(t *testing.T) {
	d := NewAt(fixedMoment)
	d.MustAddField("MSG", "TEXT", Const("o'clock"))
	if got := d.WriteQuery(); got != "" {
		t.Fatalf("query without table: got %q, want empty", got)
	}

	d.SetTableName("events")
	want := "INSERT INTO events (MOMENT,MSG) VALUES ('2024-03-09 07-05-03','o''clock')"
	if got := d.WriteQuery(); got != want {
		t.Fatalf("query: got %q, want %q", got, want)
	}
}

func TestWriteQuery_PlaceholderInTableName(t *testing.T) {
	d := NewAt(fixedMoment)
	d.SetTableName(`"a?b"`)
	d.MustAddField("MSG", "TEXT", Const("x?"))

	want := `INSERT INTO "a?b" (MOMENT,MSG) VALUES ('2024-03-09 07-05-03','x?')`
	if got := d.WriteQuery(); got != want {
		t.Fatalf("query: got %q, want %q", got, want)
	}
}

func TestStatementString_SkipsQuotedText(t *testing.T) {
	for _, tc := range []struct {
		st   Statement
		want string
	}{
		{Statement{SQL: `INSERT INTO "a?b" (V) VALUES (?)`, Args: []any{"x"}}, `INSERT INTO "a?b" (V) VALUES ('x')`},
		{Statement{SQL: "INSERT INTO [a?b] (V) VALUES (?)", Args: []any{"it's"}}, "INSERT INTO [a?b] (V) VALUES ('it''s')"},
		{Statement{SQL: "SELECT 'it''s ?', ?", Args: []any{1}}, "SELECT 'it''s ?', '1'"},
		{Statement{}, ""},
	} {
		if got := tc.st.String(); got != tc.want {
			t.Fatalf("String(%q): got %q, want %q", tc.st.SQL, got, tc.want)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	for s, want := range map[string]bool{
		"MSG":       true,
		"_x1":       true,
		"thread_id": true,
		"":          false,
		"9lives":    false,
		"a-b":       false,
		"a b":       false,
	} {
		if got := IsIdentifier(s); got != want {
			t.Fatalf("IsIdentifier(%q): got %v, want %v", s, got, want)
		}
	}
}
