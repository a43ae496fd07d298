// Package lock provides a distributed mutex built purely on the
// exported zkcoord primitives: an ephemeral-sequential claim node per
// contender, with each contender blocking on the deletion of its
// predecessor only, so a release wakes exactly one waiter.
package lock

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/coordant/zkcoord"
)

const lockPrefix = "lock-"

// ErrLockLost indicates the contender's claim node disappeared while
// waiting, which happens when the session expired and took the
// ephemeral node with it. The caller must re-acquire from scratch.
var ErrLockLost = errors.New("lock: claim node lost")

// Mutex is a distributed mutual-exclusion lock rooted at a parent
// node. A Mutex is not safe for concurrent use by multiple goroutines;
// each contender owns its own Mutex value.
type Mutex struct {
	client *zkcoord.Client
	parent string
	id     string

	claim string
}

// NewMutex creates a contender for the lock rooted at parent. The
// parent chain is created on first Acquire if missing.
func NewMutex(client *zkcoord.Client, parent string) *Mutex {
	return &Mutex{
		client: client,
		parent: parent,
		id:     uuid.NewString(),
	}
}

// ID returns the contender identity stored in the claim node's data.
func (m *Mutex) ID() string {
	return m.id
}

// Acquire blocks until the lock is held. It creates the claim node,
// then repeatedly: lists the contenders, returns when its claim is the
// lowest sequence, otherwise waits for the deletion of the claim just
// ahead of it and re-checks.
func (m *Mutex) Acquire() error {
	if err := m.client.EnsurePath(m.parent); err != nil {
		return err
	}

	if m.claim == "" {
		created, err := m.client.Create(
			m.parent+"/"+lockPrefix, []byte(m.id),
			zkcoord.WithMode(zkcoord.ModeEphemeralSequential),
		)
		if err != nil {
			return err
		}
		m.claim = created
	}

	mine := m.claim[strings.LastIndex(m.claim, "/")+1:]

	for {
		children, err := m.client.Children(m.parent)
		if err != nil {
			return err
		}

		claims := make([]string, 0, len(children))
		for _, child := range children {
			if strings.HasPrefix(child, lockPrefix) {
				claims = append(claims, child)
			}
		}
		// Fixed-width sequence suffixes order lexically.
		slices.Sort(claims)

		idx := slices.Index(claims, mine)
		if idx < 0 {
			m.claim = ""
			return ErrLockLost
		}
		if idx == 0 {
			return nil
		}

		prev := m.parent + "/" + claims[idx-1]
		if err := m.client.WaitUntilDeleted(prev); err != nil {
			return err
		}
	}
}

// Release gives the lock up by deleting the claim node. Releasing a
// lock whose claim is already gone succeeds.
func (m *Mutex) Release() error {
	if m.claim == "" {
		return nil
	}
	claim := m.claim
	m.claim = ""

	err := m.client.Delete(claim)
	if err != nil && !errors.Is(err, zkcoord.ErrNoNode) {
		return err
	}
	return nil
}
