package challenge

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"LiveCTF/common"
)

var ErrUnknownType = errors.New("unknown challenge type")

// Registry maps a type id to its implementation. It is built at start-up
// and shared by every request.
type Registry struct {
	mu    sync.RWMutex
	types map[string]ChallengeType
}

func NewRegistry(types ...ChallengeType) *Registry {
	r := &Registry{types: make(map[string]ChallengeType)}
	for _, ct := range types {
		r.Register(ct)
	}
	return r
}

// Register adds ct under its id, replacing an earlier registration.
func (r *Registry) Register(ct ChallengeType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[ct.ID()] = ct
}

func (r *Registry) Get(id string) (ChallengeType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.types[id]
	if !ok {
		return nil, common.ErrNotFound("").SetDebug(fmt.Errorf("%w: %q", ErrUnknownType, id))
	}
	return ct, nil
}

// Types returns the type data of every registered type, ordered by id.
func (r *Registry) Types() []TypeData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]TypeData, 0, len(r.types))
	for _, ct := range r.types {
		ret = append(ret, ct.TypeData())
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}
