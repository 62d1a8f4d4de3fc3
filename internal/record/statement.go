package record

import (
	"fmt"
	"strings"
)

// Statement is SQL text plus its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Empty reports whether there is nothing to execute.
func (s Statement) Empty() bool {
	return s.SQL == ""
}

// String inlines the arguments as single-quoted literals. Placeholders inside
// quoted strings or identifiers ('..', "..", `..`, [..]) are left alone.
func (s Statement) String() string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	next := 0
	var closer byte
	for i := 0; i < len(s.SQL); i++ {
		c := s.SQL[i]
		switch {
		case closer != 0:
			if c == closer {
				closer = 0
			}
		case c == '\'' || c == '"' || c == '`':
			closer = c
		case c == '[':
			closer = ']'
		case c == '?' && next < len(s.Args):
			b.WriteString(quoteLiteral(s.Args[next]))
			next++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func quoteLiteral(v any) string {
	return "'" + strings.ReplaceAll(fmt.Sprint(v), "'", "''") + "'"
}
