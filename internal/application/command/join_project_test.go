package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
)

func TestJoinProject_EmitsPerLinkedSkill(t *testing.T) {
	projects := newFakeProjectRepo(activeProject(100, 1))
	projects.members[100] = []shared.UserID{1}
	skills := newFakeSkillRepo()
	skills.byProj[100] = []shared.SkillID{4, 7, 9}
	ledger := &fakeLedger{}
	pub := &fakePublisher{}
	h := NewJoinProjectHandler(projects, skills, ledger, &fakeTxRunner{}, pub, testLogger())

	res, err := h.Handle(context.Background(), JoinProjectCommand{ProjectID: 100, UserID: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, res.SignalsAdded)
	require.Len(t, ledger.entries, 3)
	for _, e := range ledger.entries {
		assert.Equal(t, shared.UserID(2), e.UserID)
		assert.Equal(t, signal.WeightProjectJoin, e.Weight)
	}

	joined, _ := projects.IsMember(context.Background(), 100, 2)
	assert.True(t, joined)
	require.Len(t, pub.events, 1)
	assert.Equal(t, shared.EventMemberJoined, pub.events[0].EventType())
}

func TestJoinProject_ProjectWithoutSkillsStillJoins(t *testing.T) {
	projects := newFakeProjectRepo(activeProject(101, 1))
	ledger := &fakeLedger{}
	h := NewJoinProjectHandler(projects, newFakeSkillRepo(), ledger, &fakeTxRunner{}, &fakePublisher{}, testLogger())

	res, err := h.Handle(context.Background(), JoinProjectCommand{ProjectID: 101, UserID: 2})
	require.NoError(t, err)
	assert.Zero(t, res.SignalsAdded)
	assert.Empty(t, ledger.entries)
}

func TestJoinProject_DuplicateMemberRejected(t *testing.T) {
	projects := newFakeProjectRepo(activeProject(102, 1))
	projects.members[102] = []shared.UserID{1, 2}
	h := NewJoinProjectHandler(projects, newFakeSkillRepo(), &fakeLedger{}, &fakeTxRunner{}, &fakePublisher{}, testLogger())

	_, err := h.Handle(context.Background(), JoinProjectCommand{ProjectID: 102, UserID: 2})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestJoinProject_LedgerFailureAbortsJoin(t *testing.T) {
	projects := newFakeProjectRepo(activeProject(103, 1))
	skills := newFakeSkillRepo()
	skills.byProj[103] = []shared.SkillID{4}
	tx := &fakeTxRunner{}
	pub := &fakePublisher{}
	h := NewJoinProjectHandler(projects, skills, &fakeLedger{err: errStorage}, tx, pub, testLogger())

	_, err := h.Handle(context.Background(), JoinProjectCommand{ProjectID: 103, UserID: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	assert.True(t, tx.failed, "membership insert must roll back with the append")
	assert.Empty(t, pub.events)
}

func TestJoinProject_UnknownProject(t *testing.T) {
	h := NewJoinProjectHandler(newFakeProjectRepo(), newFakeSkillRepo(), &fakeLedger{}, &fakeTxRunner{}, &fakePublisher{}, testLogger())

	_, err := h.Handle(context.Background(), JoinProjectCommand{ProjectID: 999, UserID: 2})
	assert.True(t, shared.IsNotFound(err))
}
