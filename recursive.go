package zkcoord

import (
	"errors"
	"fmt"
)

// EnsurePath creates the target and every missing ancestor as
// persistent, empty nodes. It is idempotent and tolerates other clients
// creating the same ancestors concurrently: ErrNodeExists anywhere is
// treated as success.
//
// The missing-parent retry is an explicit stack instead of recursion;
// it terminates because each retry pushes a strictly shorter path and
// the root always exists. A NoNode failure for the root itself means
// the service is broken and is surfaced immediately.
func (c *Client) EnsurePath(path string) error {
	if err := ValidatePath(path, false); err != nil {
		return err
	}

	pending := []string{path}
	for len(pending) > 0 {
		p := pending[len(pending)-1]

		_, err := c.Create(p, nil, WithMode(ModePersistent))
		if err == nil || errors.Is(err, ErrNodeExists) {
			pending = pending[:len(pending)-1]
			continue
		}
		if errors.Is(err, ErrNoNode) {
			if p == "/" {
				return fmt.Errorf("zkcoord: creating root node: %w", err)
			}
			pending = append(pending, parentPath(p))
			continue
		}
		return err
	}
	return nil
}

// RemoveTree deletes each given path together with everything below
// it, depth first. "Already gone" is success at every step: another
// client may be tearing down the same subtree concurrently, and the
// goal (the subtree is absent afterwards) is still met.
func (c *Client) RemoveTree(paths ...string) error {
	for _, path := range paths {
		if err := ValidatePath(path, false); err != nil {
			return err
		}
		if err := c.removeSubtree(path); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) removeSubtree(path string) error {
	for {
		// Children are re-listed on every pass rather than taken as a
		// static snapshot: concurrent creators may add nodes below
		// while the teardown is in flight.
		children, err := c.Children(path)
		if errors.Is(err, ErrNoNode) {
			return nil
		}
		if err != nil {
			return err
		}

		for _, child := range children {
			if err := c.removeSubtree(joinPath(path, child)); err != nil {
				return err
			}
		}

		err = c.Delete(path)
		if err == nil || errors.Is(err, ErrNoNode) {
			return nil
		}
		if errors.Is(err, ErrNotEmpty) {
			c.logger.Warnf("Children appeared under %q during removal, retrying", path)
			continue
		}
		return err
	}
}
