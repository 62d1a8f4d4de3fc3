package main

import (
	"github.com/Resinat/SQLogger/internal/record"
	"github.com/google/uuid"
)

// logRec is the demo record: who logged, from which worker, and what.
type logRec struct {
	*record.Descriptor
	user    string
	worker  string
	eventID string
	message string
}

func newLogRec(table, user, worker string) *logRec {
	r := &logRec{
		Descriptor: record.New(),
		user:       user,
		worker:     worker,
		eventID:    uuid.NewString(),
	}
	r.SetTableName(table)
	r.MustAddField("USERNAME", "TEXT", func() string { return r.user })
	r.MustAddField("WORKER_ID", "TEXT", func() string { return r.worker })
	r.MustAddField("EVENT_ID", "TEXT", func() string { return r.eventID })
	r.MustAddField("MESSAGE", "TEXT", func() string { return r.message })
	return r
}

func (r *logRec) setMessage(msg string) {
	r.message = msg
}
