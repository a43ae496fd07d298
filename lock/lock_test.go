package lock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coordant/zkcoord"
	"github.com/coordant/zkcoord/lock"
)

const root = "/locks/job"

func newTestClient(t *testing.T) *zkcoord.Client {
	t.Helper()
	return zkcoord.NewClient(zkcoord.NewFakeDriver())
}

func acquireAsync(m *lock.Mutex) chan error {
	done := make(chan error, 1)
	go func() {
		done <- m.Acquire()
	}()
	return done
}

func recvAcquire(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Acquire")
		return nil
	}
}

func assertBlocked(t *testing.T, ch <-chan error) {
	t.Helper()
	select {
	case err := <-ch:
		t.Fatalf("Acquire returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestMutex(t *testing.T) {
	t.Run("uncontended acquire and release", func(t *testing.T) {
		client := newTestClient(t)

		m := lock.NewMutex(client, root)
		require.NoError(t, m.Acquire())

		children, err := client.Children(root)
		require.NoError(t, err)
		require.Len(t, children, 1)

		// The claim node carries the contender's identity.
		data, _, err := client.Get(root + "/" + children[0])
		require.NoError(t, err)
		assert.Equal(t, m.ID(), string(data))

		require.NoError(t, m.Release())

		children, err = client.Children(root)
		require.NoError(t, err)
		assert.Empty(t, children)
	})

	t.Run("second contender waits for the first", func(t *testing.T) {
		client := newTestClient(t)

		first := lock.NewMutex(client, root)
		require.NoError(t, first.Acquire())

		second := lock.NewMutex(client, root)
		done := acquireAsync(second)

		assertBlocked(t, done)

		require.NoError(t, first.Release())
		require.NoError(t, recvAcquire(t, done))
		require.NoError(t, second.Release())
	})

	t.Run("contenders are granted in claim order", func(t *testing.T) {
		client := newTestClient(t)

		first := lock.NewMutex(client, root)
		require.NoError(t, first.Acquire())

		second := lock.NewMutex(client, root)
		secondDone := acquireAsync(second)
		assertBlocked(t, secondDone)

		third := lock.NewMutex(client, root)
		thirdDone := acquireAsync(third)
		assertBlocked(t, thirdDone)

		require.NoError(t, first.Release())
		require.NoError(t, recvAcquire(t, secondDone))

		// Third waits on second, not on the released first.
		assertBlocked(t, thirdDone)

		require.NoError(t, second.Release())
		require.NoError(t, recvAcquire(t, thirdDone))
		require.NoError(t, third.Release())
	})

	t.Run("release without acquire is a no-op", func(t *testing.T) {
		client := newTestClient(t)
		m := lock.NewMutex(client, root)
		require.NoError(t, m.Release())
	})

	t.Run("losing the claim node surfaces ErrLockLost", func(t *testing.T) {
		client := newTestClient(t)

		first := lock.NewMutex(client, root)
		require.NoError(t, first.Acquire())

		second := lock.NewMutex(client, root)
		done := acquireAsync(second)
		assertBlocked(t, done)

		// Simulate session expiry reaping the second claim node.
		children, err := client.Children(root)
		require.NoError(t, err)
		require.Len(t, children, 2)
		require.NoError(t, client.Delete(root+"/"+children[1]))

		require.NoError(t, first.Release())
		assert.ErrorIs(t, recvAcquire(t, done), lock.ErrLockLost)
	})

	t.Run("separate roots do not interfere", func(t *testing.T) {
		client := newTestClient(t)

		a := lock.NewMutex(client, "/locks/a")
		b := lock.NewMutex(client, "/locks/b")

		require.NoError(t, a.Acquire())
		require.NoError(t, b.Acquire())

		require.NoError(t, a.Release())
		require.NoError(t, b.Release())
	})
}
