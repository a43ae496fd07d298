//go:build tools

package zkcoord

import (
	_ "github.com/mgechev/revive"
)
