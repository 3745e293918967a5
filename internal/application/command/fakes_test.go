package command

import (
	"context"
	"errors"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/mentorship"
	"github.com/bonny2long/syncup-backend/internal/domain/project"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/internal/domain/skill"
	"github.com/bonny2long/syncup-backend/internal/domain/user"
)

// In-memory fakes for the handler tests. They honor the same interfaces the
// postgres repositories implement but keep everything in maps. The tx fake
// only tracks whether the wrapped function failed; assertions about
// atomicity are made on the returned errors.

type fakeTxRunner struct {
	calls  int
	failed bool
}

func (f *fakeTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		f.failed = true
		return err
	}
	return nil
}

type fakePublisher struct {
	events []shared.Event
	err    error
}

func (f *fakePublisher) Publish(event shared.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeLedger struct {
	entries []signal.Entry
	err     error
}

func (f *fakeLedger) Append(ctx context.Context, entries []signal.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entries...)
	return nil
}

type fakeUserRepo struct {
	users map[shared.UserID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[shared.UserID]*user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id shared.UserID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, shared.NewDomainError("user", "GetByID", shared.ErrNotFound, "user not found")
	}
	return u, nil
}

type fakeSkillRepo struct {
	nextID   int64
	byName   map[string]shared.SkillID
	byProj   map[shared.ProjectID][]shared.SkillID
	findErr  error
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{
		nextID: 1,
		byName: make(map[string]shared.SkillID),
		byProj: make(map[shared.ProjectID][]shared.SkillID),
	}
}

func (f *fakeSkillRepo) FindOrCreate(ctx context.Context, name string) (shared.SkillID, error) {
	if f.findErr != nil {
		return 0, f.findErr
	}
	norm := skill.NormalizeName(name)
	if id, ok := f.byName[norm]; ok {
		return id, nil
	}
	id := shared.SkillID(f.nextID)
	f.nextID++
	f.byName[norm] = id
	return id, nil
}

func (f *fakeSkillRepo) GetByIDs(ctx context.Context, ids []shared.SkillID) ([]*skill.Skill, error) {
	var out []*skill.Skill
	for name, id := range f.byName {
		for _, want := range ids {
			if id == want {
				out = append(out, &skill.Skill{ID: id, Name: name})
			}
		}
	}
	return out, nil
}

func (f *fakeSkillRepo) IDsForProject(ctx context.Context, projectID shared.ProjectID) ([]shared.SkillID, error) {
	return f.byProj[projectID], nil
}

type fakeProjectRepo struct {
	nextID     int64
	nextUpdate int64
	projects   map[shared.ProjectID]*project.Project
	members    map[shared.ProjectID][]shared.UserID
	updates    []*project.ProgressUpdate
	links      map[shared.ProjectID][]shared.SkillID
}

func newFakeProjectRepo(projects ...*project.Project) *fakeProjectRepo {
	r := &fakeProjectRepo{
		nextID:     100,
		nextUpdate: 500,
		projects:   make(map[shared.ProjectID]*project.Project),
		members:    make(map[shared.ProjectID][]shared.UserID),
		links:      make(map[shared.ProjectID][]shared.SkillID),
	}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *project.Project) error {
	p.ID = shared.ProjectID(f.nextID)
	f.nextID++
	p.CreatedAt = time.Now().UTC()
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id shared.ProjectID) (*project.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, shared.NewDomainError("project", "GetByID", shared.ErrNotFound, "project not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectRepo) GetForUpdate(ctx context.Context, id shared.ProjectID) (*project.Project, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProjectRepo) UpdateStatus(ctx context.Context, p *project.Project) error {
	stored, ok := f.projects[p.ID]
	if !ok {
		return shared.NewDomainError("project", "UpdateStatus", shared.ErrNotFound, "project not found")
	}
	stored.Status = p.Status
	stored.UpdatedAt = p.UpdatedAt
	return nil
}

func (f *fakeProjectRepo) AddMember(ctx context.Context, m *project.Member) error {
	f.members[m.ProjectID] = append(f.members[m.ProjectID], m.UserID)
	return nil
}

func (f *fakeProjectRepo) IsMember(ctx context.Context, projectID shared.ProjectID, userID shared.UserID) (bool, error) {
	for _, id := range f.members[projectID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectRepo) MemberIDs(ctx context.Context, projectID shared.ProjectID) ([]shared.UserID, error) {
	return f.members[projectID], nil
}

func (f *fakeProjectRepo) LinkSkill(ctx context.Context, projectID shared.ProjectID, skillID shared.SkillID) error {
	f.links[projectID] = append(f.links[projectID], skillID)
	return nil
}

func (f *fakeProjectRepo) CreateUpdate(ctx context.Context, u *project.ProgressUpdate) error {
	u.ID = shared.UpdateID(f.nextUpdate)
	f.nextUpdate++
	u.CreatedAt = time.Now().UTC()
	f.updates = append(f.updates, u)
	return nil
}

type fakeSessionRepo struct {
	nextID   int64
	sessions map[shared.SessionID]*mentorship.Session
}

func newFakeSessionRepo(sessions ...*mentorship.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{nextID: 300, sessions: make(map[shared.SessionID]*mentorship.Session)}
	for _, s := range sessions {
		r.sessions[s.ID] = s
	}
	return r
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *mentorship.Session) error {
	s.ID = shared.SessionID(f.nextID)
	f.nextID++
	s.CreatedAt = time.Now().UTC()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id shared.SessionID) (*mentorship.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, shared.NewDomainError("mentorship", "GetByID", shared.ErrNotFound, "session not found")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) GetForUpdate(ctx context.Context, id shared.SessionID) (*mentorship.Session, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSessionRepo) Update(ctx context.Context, s *mentorship.Session) error {
	if _, ok := f.sessions[s.ID]; !ok {
		return shared.NewDomainError("mentorship", "Update", shared.ErrNotFound, "session not found")
	}
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

var errStorage = errors.New("storage unavailable")
