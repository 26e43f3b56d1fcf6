package challenge

import (
	"context"
	"errors"
	"testing"

	"LiveCTF/common"
	"LiveCTF/flags"
	"LiveCTF/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCode(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var e *common.Error
	require.True(t, errors.As(err, &e), "unexpected error %v", err)
	assert.Equal(t, status, e.HttpStatusCode())
}

func TestAttemptCorrectPaysAuthor(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{
		"name": "warmup", "value": 100, "category": "misc", "owner_team_id": 10,
	})
	env.addStaticFlag(ch, "flag{x}")

	res, err := env.orch.Attempt(context.Background(), teamActor(5, 1), ch.ID, strp("flag{x}"))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "Correct", res.Message)
	assert.Equal(t, StatusCorrect, res.Status)
	require.Len(t, env.store.solves, 1)
	assert.Equal(t, int64(5), env.store.solves[0].UserID)
	require.Len(t, env.store.awards, 1)
	assert.Equal(t, int64(10), env.store.awards[0].TeamID)
	assert.Equal(t, 200, env.store.awards[0].Value)

	// 第二支队伍解出, 出题队伍不会再得奖励
	res, err = env.orch.Attempt(context.Background(), teamActor(6, 2), ch.ID, strp("flag{x}"))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.True(t, res.Award.AlreadyAwarded)
	assert.Len(t, env.store.solves, 2)
	assert.Len(t, env.store.awards, 1)
}

func TestAttemptIncorrect(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "c", "owner_team_id": 10})
	env.addStaticFlag(ch, "flag{x}")

	res, err := env.orch.Attempt(context.Background(), teamActor(5, 1), ch.ID, strp("flag{y}"))
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, "Incorrect", res.Message)
	assert.Equal(t, StatusIncorrect, res.Status)
	assert.Len(t, env.store.fails, 1)
	assert.Empty(t, env.store.solves)
	assert.Empty(t, env.store.awards)
}

func TestAttemptTrimsSubmission(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "c"})
	env.addStaticFlag(ch, "flag{x}")

	res, err := env.orch.Attempt(context.Background(), teamActor(5, 1), ch.ID, strp("  flag{x}\n"))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "flag{x}", env.store.solves[0].Provided)
}

func TestAttemptSelfSolve(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "mine", "owner_team_id": 10})
	env.addStaticFlag(ch, "flag{x}")

	res, err := env.orch.Attempt(context.Background(), teamActor(7, 10), ch.ID, strp("flag{x}"))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, StatusSelfSolve, res.Status)
	assert.Empty(t, env.store.solves)
	require.Len(t, env.store.fails, 1)
	assert.Equal(t, int64(10), *env.store.fails[0].TeamID)
	assert.Empty(t, env.store.awards)
}

func TestAttemptNoFlags(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "empty"})

	for _, s := range []string{"", "anything", "flag{x}"} {
		res, err := env.orch.Attempt(context.Background(), teamActor(5, 1), ch.ID, strp(s))
		require.NoError(t, err)
		assert.False(t, res.Correct)
	}
	assert.Len(t, env.store.fails, 3)
}

func TestAttemptMalformedRegex(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "re"})
	env.store.addFlag(model.Flag{ChallengeID: ch.ID, Type: flags.TypeRegex, Content: "flag{("})
	env.addStaticFlag(ch, "flag{(")

	res, err := env.orch.Attempt(context.Background(), teamActor(5, 1), ch.ID, strp("flag{("))
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, "Regex parse error occured", res.Message)
	assert.Len(t, env.store.fails, 1)
}

func TestAttemptTeamlessSolve(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "c", "owner_team_id": 10})
	env.addStaticFlag(ch, "flag{x}")

	res, err := env.orch.Attempt(context.Background(), soloActor(5), ch.ID, strp("flag{x}"))
	require.NoError(t, err)
	assert.Equal(t, StatusCorrect, res.Status)
	require.Len(t, env.store.solves, 1)
	assert.Nil(t, env.store.solves[0].TeamID)
	// 没有队伍的解题不计入, n=0 对应 0 分
	require.Len(t, env.store.awards, 1)
	assert.Equal(t, 0, env.store.awards[0].Value)
}

func TestAttemptRejected(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "c"})
	hidden := env.createChallenge(t, map[string]interface{}{"name": "h", "state": "hidden"})
	ctx := context.Background()

	_, err := env.orch.Attempt(ctx, nil, ch.ID, strp("x"))
	requireCode(t, err, 401)

	_, err = env.orch.Attempt(ctx, teamActor(5, 1), ch.ID, nil)
	requireCode(t, err, 400)

	_, err = env.orch.Attempt(ctx, teamActor(5, 1), 999, strp("x"))
	requireCode(t, err, 404)

	_, err = env.orch.Attempt(ctx, teamActor(5, 1), hidden.ID, strp("x"))
	requireCode(t, err, 404)

	assert.Empty(t, env.store.fails)
	assert.Empty(t, env.store.solves)
}

func TestAttemptUnknownType(t *testing.T) {
	env := newTestEnv(t)
	ch := &model.Challenge{Name: "ghost", Type: "plugin_gone", State: model.StateVisible}
	require.NoError(t, env.store.CreateChallenge(context.Background(), ch))

	_, err := env.orch.Attempt(context.Background(), teamActor(5, 1), ch.ID, strp("x"))
	requireCode(t, err, 404)
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestAttemptMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "c", "max_attempts": 2})
	env.addStaticFlag(ch, "flag{x}")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := env.orch.Attempt(ctx, teamActor(5, 1), ch.ID, strp("nope"))
		require.NoError(t, err)
		assert.False(t, res.Correct)
	}
	// 同队其他成员也用完了次数
	_, err := env.orch.Attempt(ctx, teamActor(6, 1), ch.ID, strp("flag{x}"))
	requireCode(t, err, 403)
	assert.EqualError(t, err, "You have 0 tries remaining")

	res, err := env.orch.Attempt(ctx, teamActor(8, 2), ch.ID, strp("flag{x}"))
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestAttemptRateLimited(t *testing.T) {
	env := newTestEnv(t).withLimiter(2)
	ch := env.createChallenge(t, map[string]interface{}{"name": "c"})
	env.addStaticFlag(ch, "flag{x}")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := env.orch.Attempt(ctx, teamActor(5, 1), ch.ID, strp("nope"))
		require.NoError(t, err)
	}
	_, err := env.orch.Attempt(ctx, teamActor(5, 1), ch.ID, strp("flag{x}"))
	requireCode(t, err, 429)
	assert.Len(t, env.store.fails, 2)

	// 管理员不受限制
	env.limiter.counts["user_1"] = 10
	res, err := env.orch.Attempt(ctx, admin(), ch.ID, strp("flag{x}"))
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestReadHiddenForOwner(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, map[string]interface{}{"name": "c", "owner_team_id": 10})
	ctx := context.Background()

	v, err := env.orch.Read(ctx, teamActor(7, 10), ch.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.StateHidden, v.State)
	assert.Zero(t, v.OwnerTeamID)

	v, err = env.orch.Read(ctx, teamActor(5, 1), ch.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.StateVisible, v.State)

	v, err = env.orch.Read(ctx, admin(), ch.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.OwnerTeamID)
	assert.Equal(t, TypeStandard, v.TypeData.ID)
}

func TestCreateAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ch := env.createChallenge(t, map[string]interface{}{"name": "c", "value": "150"})
	assert.Equal(t, TypeStandard, ch.Type)
	assert.Equal(t, model.StateVisible, ch.State)
	assert.Equal(t, 150, ch.Value)

	p, err := DecodePatch(map[string]interface{}{"description": "new", "state": "locked"})
	require.NoError(t, err)
	updated, err := env.orch.Update(ctx, admin(), ch.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, model.StateLocked, updated.State)
	assert.Equal(t, "c", updated.Name)

	p, err = DecodePatch(map[string]interface{}{"type": TypeLive})
	require.NoError(t, err)
	_, err = env.orch.Update(ctx, admin(), ch.ID, p)
	requireCode(t, err, 400)

	p, err = DecodePatch(map[string]interface{}{"allowed_users": "1"})
	require.NoError(t, err)
	_, err = env.orch.Update(ctx, admin(), ch.ID, p)
	requireCode(t, err, 400)

	p, err = DecodePatch(map[string]interface{}{"name": "x", "type": "nope"})
	require.NoError(t, err)
	_, err = env.orch.Create(ctx, admin(), p)
	requireCode(t, err, 400)

	p, err = DecodePatch(map[string]interface{}{"value": 5})
	require.NoError(t, err)
	_, err = env.orch.Create(ctx, admin(), p)
	requireCode(t, err, 400)
}

func TestDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.store.addUser(model.User{Name: "alice", Type: model.UserTypeUser})
	ch := env.createChallenge(t, map[string]interface{}{
		"name": "c", "type": TypeLive, "allowed_users": "1",
	})
	keep := env.createChallenge(t, map[string]interface{}{"name": "keep"})
	env.addStaticFlag(ch, "flag{x}")
	env.addStaticFlag(keep, "flag{k}")
	env.store.files = append(env.store.files,
		model.ChallengeFile{ChallengeID: ch.ID, Location: "abc/a.txt"},
		model.ChallengeFile{ChallengeID: keep.ID, Location: "def/b.txt"},
	)
	env.store.tags = append(env.store.tags, model.Tag{ChallengeID: ch.ID, Value: "web"})
	require.NoError(t, env.store.ReplaceGrants(ctx, GrantLive, ch.ID, []int64{u.ID}))
	_, err := env.orch.Attempt(ctx, &Actor{UserID: u.ID, IP: "1.1.1.1"}, ch.ID, strp("no"))
	require.NoError(t, err)

	require.NoError(t, env.orch.Delete(ctx, admin(), ch.ID))

	_, err = env.store.GetChallenge(ctx, ch.ID)
	requireCode(t, err, 404)
	assert.Equal(t, []string{"abc/a.txt"}, env.files.removed)
	assert.Len(t, env.store.flags, 1)
	assert.Empty(t, env.store.tags)
	assert.Empty(t, env.store.fails)
	grants, err := env.store.ListGrants(ctx, GrantLive, ch.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)
	_, err = env.store.GetChallenge(ctx, keep.ID)
	assert.NoError(t, err)
}
