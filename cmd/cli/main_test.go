package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter struct {
	count int64
	err   error
}

func (f fixedCounter) Count(context.Context) (int64, error) { return f.count, f.err }

func TestWriteStats_TitleCasesLabels(t *testing.T) {
	var out bytes.Buffer

	err := writeStats(context.Background(), &out, []statSource{
		{label: "waitlist entries", source: fixedCounter{count: 3}},
		{label: "contact submissions", source: fixedCounter{count: 12}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Waitlist Entries     3\nContact Submissions  12\n", out.String())
}

func TestWriteStats_PropagatesCountError(t *testing.T) {
	err := writeStats(context.Background(), &bytes.Buffer{}, []statSource{
		{label: "waitlist entries", source: fixedCounter{err: errors.New("boom")}},
	})

	assert.ErrorContains(t, err, "count waitlist entries")
}

func TestPrintUsage_ListsCommands(t *testing.T) {
	var out bytes.Buffer
	printUsage(&out)

	for _, cmd := range []string{"migrate", "migrate-down", "stats", "help"} {
		assert.Contains(t, out.String(), cmd)
	}
}

func TestRunMigrations_RejectsSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	err := runMigrations(nil, nil)
	assert.ErrorContains(t, err, "target PostgreSQL")
}
