package challenge

import (
	"context"

	"LiveCTF/common"
	"LiveCTF/model"
)

// AccessPolicy decides whether an actor may perform op on a challenge.
type AccessPolicy interface {
	Allowed(ctx context.Context, actor *Actor, ch *model.Challenge, op Operation) (bool, error)
}

// Open lets every authenticated actor in.
type Open struct{}

func (Open) Allowed(_ context.Context, actor *Actor, _ *model.Challenge, _ Operation) (bool, error) {
	return actor != nil, nil
}

// Allowlist admits actors holding a grant of Kind for the challenge. Admins
// skip the check for the operations listed in AdminBypass.
type Allowlist struct {
	Grants      GrantStore
	Kind        GrantKind
	AdminBypass []Operation
}

func (a *Allowlist) Allowed(ctx context.Context, actor *Actor, ch *model.Challenge, op Operation) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.Admin {
		for _, b := range a.AdminBypass {
			if b == op {
				return true, nil
			}
		}
	}
	return a.Grants.HasGrant(ctx, a.Kind, ch.ID, actor.UserID)
}

func checkAccess(ctx context.Context, policy AccessPolicy, actor *Actor, ch *model.Challenge, op Operation) error {
	if actor == nil {
		return common.ErrUnauthorized()
	}
	ok, err := policy.Allowed(ctx, actor, ch, op)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrForbidden("")
	}
	return nil
}

// replaceGrantsByName resolves a comma separated username list and replaces
// the grant set with it. Names that do not resolve are skipped.
func replaceGrantsByName(ctx context.Context, grants GrantStore, users UserStore, kind GrantKind, challengeID int64, raw string) error {
	ids := make([]int64, 0)
	for _, name := range common.SplitList(raw) {
		u, err := users.FindUserByName(ctx, name)
		if err != nil {
			return err
		}
		if u != nil {
			ids = append(ids, u.ID)
		}
	}
	return grants.ReplaceGrants(ctx, kind, challengeID, uniqueIDs(ids))
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	ret := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			ret = append(ret, id)
		}
	}
	return ret
}
