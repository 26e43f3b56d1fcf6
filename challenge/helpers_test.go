package challenge

import (
	"context"
	"testing"

	"LiveCTF/flags"
	"LiveCTF/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store   *memStore
	files   *fakeRemover
	orch    *Orchestrator
	awards  *AwardEngine
	limiter *countingLimiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	files := &fakeRemover{}
	log := zerolog.Nop()
	registry := NewRegistry(
		NewStandard(store, files, log),
		NewLive(store, files, log),
		NewLiveCTF(store, files, log),
	)
	awards := NewAwardEngine(store, store, nil, log)
	return &testEnv{
		store:  store,
		files:  files,
		awards: awards,
		orch:   NewOrchestrator(registry, store, awards, nil, log),
	}
}

func (e *testEnv) withLimiter(max int) *testEnv {
	e.limiter = &countingLimiter{max: max, counts: map[string]int{}}
	e.orch.limiter = e.limiter
	return e
}

func (e *testEnv) createChallenge(t *testing.T, data map[string]interface{}) *model.Challenge {
	t.Helper()
	p, err := DecodePatch(data)
	require.NoError(t, err)
	ch, err := e.orch.Create(context.Background(), admin(), p)
	require.NoError(t, err)
	return ch
}

func (e *testEnv) addStaticFlag(ch *model.Challenge, content string) {
	e.store.addFlag(model.Flag{ChallengeID: ch.ID, Type: flags.TypeStatic, Content: content})
}

func teamActor(userID, teamID int64) *Actor {
	return &Actor{UserID: userID, Name: "user", TeamID: &teamID, IP: "127.0.0.1"}
}

func soloActor(userID int64) *Actor {
	return &Actor{UserID: userID, Name: "solo", IP: "127.0.0.1"}
}

func admin() *Actor {
	return &Actor{UserID: 1, Name: "admin", Admin: true, IP: "127.0.0.1"}
}

func strp(s string) *string {
	return &s
}

type countingLimiter struct {
	max    int
	counts map[string]int
}

func (c *countingLimiter) Limited(_ context.Context, key string) (bool, error) {
	return c.counts[key] >= c.max, nil
}

func (c *countingLimiter) Record(_ context.Context, key string) error {
	c.counts[key]++
	return nil
}
