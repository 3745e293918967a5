package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

func TestSourceRefTagging(t *testing.T) {
	p := ProjectSource(10)
	assert.Equal(t, SourceProject, p.Type())
	assert.EqualValues(t, 10, p.ID())
	assert.True(t, p.IsValid())

	u := UpdateSource(11)
	assert.Equal(t, SourceUpdate, u.Type())

	m := MentorshipSource(12)
	assert.Equal(t, SourceMentorship, m.Type())

	// Same raw id, different tags: the references are distinct.
	assert.NotEqual(t, ProjectSource(5), UpdateSource(5))

	var zero SourceRef
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsValid())
	assert.False(t, ProjectSource(0).IsValid())
}

func TestEntryValidate(t *testing.T) {
	valid := Entry{
		UserID:     1,
		SkillID:    2,
		Source:     ProjectSource(3),
		SignalType: SignalJoined,
		Weight:     WeightProjectJoin,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Entry)
		want   error
	}{
		{"invalid user", func(e *Entry) { e.UserID = 0 }, shared.ErrInvalidID},
		{"invalid skill", func(e *Entry) { e.SkillID = -1 }, shared.ErrInvalidID},
		{"missing source", func(e *Entry) { e.Source = SourceRef{} }, ErrInvalidSource},
		{"unknown signal type", func(e *Entry) { e.SignalType = "promoted" }, ErrUnknownType},
		{"zero weight", func(e *Entry) { e.Weight = 0 }, ErrInvalidWeight},
		{"negative weight", func(e *Entry) { e.Weight = -3 }, ErrInvalidWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			assert.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWeights(t *testing.T) {
	// Fixed weights per source.
	assert.Equal(t, 1, WeightProjectJoin)
	assert.Equal(t, 1, WeightProgressUpdate)
	assert.Equal(t, 3, WeightMentorshipSession)
}
