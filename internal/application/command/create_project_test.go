package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonny2long/syncup-backend/internal/domain/project"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
)

func TestCreateProject_OwnerJoinSignalsEmitted(t *testing.T) {
	projects := newFakeProjectRepo()
	skills := newFakeSkillRepo()
	ledger := &fakeLedger{}
	h := NewCreateProjectHandler(projects, skills, ledger, &fakeTxRunner{}, testLogger())

	res, err := h.Handle(context.Background(), CreateProjectCommand{
		OwnerID:    7,
		Title:      "etl rewrite",
		SkillNames: []string{"Go", "SQL", "go"},
	})
	require.NoError(t, err)

	assert.Equal(t, project.StatusPlanned, res.Project.Status)
	assert.Len(t, res.SkillIDs, 2, "duplicate names collapse to one skill")

	members, _ := projects.MemberIDs(context.Background(), res.Project.ID)
	assert.Equal(t, []shared.UserID{7}, members)

	require.Len(t, ledger.entries, 2)
	for _, e := range ledger.entries {
		assert.Equal(t, shared.UserID(7), e.UserID)
		assert.Equal(t, signal.SignalJoined, e.SignalType)
		assert.Equal(t, signal.WeightProjectJoin, e.Weight)
		assert.Equal(t, signal.SourceProject, e.Source.Type())
	}
}

func TestCreateProject_NoSkillsNoSignals(t *testing.T) {
	projects := newFakeProjectRepo()
	ledger := &fakeLedger{}
	h := NewCreateProjectHandler(projects, newFakeSkillRepo(), ledger, &fakeTxRunner{}, testLogger())

	res, err := h.Handle(context.Background(), CreateProjectCommand{OwnerID: 7, Title: "solo"})
	require.NoError(t, err)
	assert.Empty(t, ledger.entries)
	assert.NotZero(t, res.Project.ID)
}

func TestCreateProject_ValidationErrors(t *testing.T) {
	h := NewCreateProjectHandler(newFakeProjectRepo(), newFakeSkillRepo(), &fakeLedger{}, &fakeTxRunner{}, testLogger())

	_, err := h.Handle(context.Background(), CreateProjectCommand{Title: "no owner"})
	assert.True(t, shared.IsValidation(err))

	_, err = h.Handle(context.Background(), CreateProjectCommand{OwnerID: 7})
	assert.True(t, shared.IsValidation(err))
}
