package challenge

import (
	"context"

	"LiveCTF/common"
	"LiveCTF/model"

	"github.com/rs/zerolog"
)

const (
	TypeLive    = "live"
	TypeLiveCTF = "livectf"
)

// Live is a challenge only the users listed by id may read, attempt and
// solve. Admins may read it.
type Live struct {
	*Standard
}

func NewLive(store Store, files FileRemover, log zerolog.Logger) *Live {
	policy := &Allowlist{Grants: store, Kind: GrantLive, AdminBypass: []Operation{OpRead}}
	keys := append(append([]string{}, BaseKeys...), KeyAllowedUsers)
	return &Live{Standard: newStandard(TypeLive, "/plugins/live_challenges/assets/", keys, store, policy, files, log)}
}

func (l *Live) Create(ctx context.Context, actor *Actor, patch *Patch) (*model.Challenge, error) {
	var ids []int64
	if patch.AllowedUsers != nil {
		var err error
		if ids, err = common.ParseIDList(*patch.AllowedUsers); err != nil {
			return nil, err
		}
	}
	ch, err := l.Standard.Create(ctx, actor, patch)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err := l.store.ReplaceGrants(ctx, GrantLive, ch.ID, uniqueIDs(ids)); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

func (l *Live) Read(ctx context.Context, actor *Actor, ch *model.Challenge, management bool) (*View, error) {
	v, err := l.Standard.Read(ctx, actor, ch, management)
	if err != nil {
		return nil, err
	}
	if !management || !actor.Admin {
		return v, nil
	}
	users, err := l.store.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	v.Users = make([]UserRef, 0, len(users))
	for _, u := range users {
		v.Users = append(v.Users, UserRef{ID: u.ID, Name: u.Name})
	}
	if v.AllowedUsers, err = l.store.ListGrants(ctx, GrantLive, ch.ID); err != nil {
		return nil, err
	}
	return v, nil
}

func (l *Live) Update(ctx context.Context, actor *Actor, ch *model.Challenge, patch *Patch) (*model.Challenge, error) {
	var ids []int64
	if patch.AllowedUsers != nil {
		var err error
		if ids, err = common.ParseIDList(*patch.AllowedUsers); err != nil {
			return nil, err
		}
	}
	ch, err := l.Standard.Update(ctx, actor, ch, patch)
	if err != nil {
		return nil, err
	}
	if patch.AllowedUsers != nil {
		if err := l.store.ReplaceGrants(ctx, GrantLive, ch.ID, uniqueIDs(ids)); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

// LiveCTF is a challenge only the users listed by name, and admins, may
// read, attempt and solve.
type LiveCTF struct {
	*Standard
}

func NewLiveCTF(store Store, files FileRemover, log zerolog.Logger) *LiveCTF {
	policy := &Allowlist{Grants: store, Kind: GrantLiveCTF, AdminBypass: []Operation{OpRead, OpAttempt, OpSolve}}
	keys := append(append([]string{}, BaseKeys...), KeyAuthorizedUsers)
	return &LiveCTF{Standard: newStandard(TypeLiveCTF, "/plugins/livectf_challenges/assets/", keys, store, policy, files, log)}
}

func (l *LiveCTF) Create(ctx context.Context, actor *Actor, patch *Patch) (*model.Challenge, error) {
	ch, err := l.Standard.Create(ctx, actor, patch)
	if err != nil {
		return nil, err
	}
	if patch.AuthorizedUsers != nil {
		if err := replaceGrantsByName(ctx, l.store, l.store, GrantLiveCTF, ch.ID, *patch.AuthorizedUsers); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

func (l *LiveCTF) Read(ctx context.Context, actor *Actor, ch *model.Challenge, management bool) (*View, error) {
	v, err := l.Standard.Read(ctx, actor, ch, management)
	if err != nil {
		return nil, err
	}
	if !management || !actor.Admin {
		return v, nil
	}
	ids, err := l.store.ListGrants(ctx, GrantLiveCTF, ch.ID)
	if err != nil {
		return nil, err
	}
	users, err := l.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	v.AuthorizedUsers = make([]string, 0, len(users))
	for _, u := range users {
		v.AuthorizedUsers = append(v.AuthorizedUsers, u.Name)
	}
	return v, nil
}

func (l *LiveCTF) Update(ctx context.Context, actor *Actor, ch *model.Challenge, patch *Patch) (*model.Challenge, error) {
	ch, err := l.Standard.Update(ctx, actor, ch, patch)
	if err != nil {
		return nil, err
	}
	if patch.AuthorizedUsers != nil {
		if err := replaceGrantsByName(ctx, l.store, l.store, GrantLiveCTF, ch.ID, *patch.AuthorizedUsers); err != nil {
			return nil, err
		}
	}
	return ch, nil
}
