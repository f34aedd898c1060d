package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuiteResult_Record(t *testing.T) {
	r := NewSuiteResult("smoke")
	assert.NotEmpty(t, r.RunID)
	assert.False(t, r.StartedAt.IsZero())

	r.Record(CaseResult{Name: "a", Status: StatusPassed})
	r.Record(CaseResult{Name: "b", Status: StatusFailed})
	r.Record(CaseResult{Name: "c", Status: StatusSkipped})
	r.Record(CaseResult{Name: "d", Status: StatusError})

	assert.Equal(t, 4, r.Total())
	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Errored)
}

func TestSuiteResult_AllPassed(t *testing.T) {
	r := NewSuiteResult("smoke")
	r.Record(CaseResult{Name: "a", Status: StatusPassed})
	r.Record(CaseResult{Name: "b", Status: StatusSkipped})
	assert.True(t, r.AllPassed())

	r.Record(CaseResult{Name: "c", Status: StatusFailed})
	assert.False(t, r.AllPassed())
}

func TestSuiteResult_DistinctRunIDs(t *testing.T) {
	a := NewSuiteResult("smoke")
	b := NewSuiteResult("smoke")
	assert.NotEqual(t, a.RunID, b.RunID)
}
