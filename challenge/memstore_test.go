package challenge

import (
	"context"
	"errors"
	"sort"
	"sync"

	"LiveCTF/common"
	"LiveCTF/model"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	challenges map[int64]*model.Challenge
	flags      []model.Flag
	tags       []model.Tag
	files      []model.ChallengeFile
	solves     []model.Solve
	fails      []model.Fail
	awards     []model.Award
	grants     map[GrantKind]map[int64][]int64
	users      []model.User

	awardErr error
}

func newMemStore() *memStore {
	return &memStore{
		challenges: make(map[int64]*model.Challenge),
		grants: map[GrantKind]map[int64][]int64{
			GrantLive:    {},
			GrantLiveCTF: {},
		},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateChallenge(_ context.Context, ch *model.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch.ID = m.id()
	cp := *ch
	m.challenges[ch.ID] = &cp
	return nil
}

func (m *memStore) GetChallenge(_ context.Context, id int64) (*model.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[id]
	if !ok {
		return nil, common.ErrNotFound("")
	}
	cp := *ch
	return &cp, nil
}

func (m *memStore) UpdateChallenge(_ context.Context, ch *model.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ch
	m.challenges[ch.ID] = &cp
	return nil
}

func (m *memStore) DeleteChallenge(_ context.Context, id int64) ([]model.ChallengeFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.challenges, id)
	var files []model.ChallengeFile
	keptFiles := m.files[:0]
	for _, f := range m.files {
		if f.ChallengeID == id {
			files = append(files, f)
		} else {
			keptFiles = append(keptFiles, f)
		}
	}
	m.files = keptFiles
	m.flags = filter(m.flags, func(f model.Flag) bool { return f.ChallengeID != id })
	m.tags = filter(m.tags, func(t model.Tag) bool { return t.ChallengeID != id })
	m.solves = filter(m.solves, func(s model.Solve) bool { return s.ChallengeID != id })
	m.fails = filter(m.fails, func(f model.Fail) bool { return f.ChallengeID != id })
	for _, g := range m.grants {
		delete(g, id)
	}
	return files, nil
}

func filter[T any](xs []T, keep func(T) bool) []T {
	ret := make([]T, 0, len(xs))
	for _, x := range xs {
		if keep(x) {
			ret = append(ret, x)
		}
	}
	return ret
}

func (m *memStore) addFlag(f model.Flag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = m.id()
	m.flags = append(m.flags, f)
}

func (m *memStore) ListFlags(_ context.Context, challengeID int64) ([]model.Flag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filter(m.flags, func(f model.Flag) bool { return f.ChallengeID == challengeID }), nil
}

func (m *memStore) ListTags(_ context.Context, challengeID int64) ([]model.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filter(m.tags, func(t model.Tag) bool { return t.ChallengeID == challengeID }), nil
}

func (m *memStore) InsertSolve(_ context.Context, s *model.Solve) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	m.solves = append(m.solves, *s)
	return nil
}

func (m *memStore) InsertFail(_ context.Context, f *model.Fail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = m.id()
	m.fails = append(m.fails, *f)
	return nil
}

func (m *memStore) CountFails(_ context.Context, challengeID, userID int64, teamID *int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, f := range m.fails {
		if f.ChallengeID != challengeID {
			continue
		}
		if teamID != nil {
			if f.TeamID != nil && *f.TeamID == *teamID {
				n++
			}
		} else if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountDistinctSolvingTeams(_ context.Context, challengeID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	teams := make(map[int64]bool)
	for _, s := range m.solves {
		if s.ChallengeID == challengeID && s.TeamID != nil {
			teams[*s.TeamID] = true
		}
	}
	return int64(len(teams)), nil
}

func (m *memStore) FindAward(_ context.Context, teamID int64, description string) (*model.Award, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.awards {
		if a.TeamID == teamID && a.Description == description {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertAward(_ context.Context, a *model.Award) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.awardErr != nil {
		return m.awardErr
	}
	a.ID = m.id()
	m.awards = append(m.awards, *a)
	return nil
}

func (m *memStore) HasGrant(_ context.Context, kind GrantKind, challengeID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.grants[kind][challengeID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListGrants(_ context.Context, kind GrantKind, challengeID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := append([]int64{}, m.grants[kind][challengeID]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memStore) ReplaceGrants(_ context.Context, kind GrantKind, challengeID int64, userIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[kind]
	if !ok {
		return errors.New("unknown grant kind")
	}
	g[challengeID] = append([]int64{}, userIDs...)
	return nil
}

func (m *memStore) addUser(u model.User) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	m.users = append(m.users, u)
	return u
}

func (m *memStore) FindUserByName(_ context.Context, name string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Name == name {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetUsers(_ context.Context, ids []int64) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[int64]bool)
	for _, id := range ids {
		want[id] = true
	}
	return filter(m.users, func(u model.User) bool { return want[u.ID] }), nil
}

func (m *memStore) ListActiveUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filter(m.users, func(u model.User) bool {
		return u.Type == model.UserTypeUser && !u.Banned && !u.Hidden
	}), nil
}

type fakeRemover struct {
	removed []string
}

func (f *fakeRemover) RemoveFile(location string) error {
	f.removed = append(f.removed, location)
	return nil
}
