package zkcoord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateCode(t *testing.T) {
	t.Run("enumerated codes map to dedicated errors", func(t *testing.T) {
		tt := []struct {
			code ResultCode
			err  error
		}{
			{CodeConnectionLoss, ErrConnectionLoss},
			{CodeAPIError, ErrAPIError},
			{CodeNoNode, ErrNoNode},
			{CodeNoAuth, ErrNoAuth},
			{CodeBadVersion, ErrBadVersion},
			{CodeNoChildrenForEphemerals, ErrNoChildrenForEphemerals},
			{CodeNodeExists, ErrNodeExists},
			{CodeNotEmpty, ErrNotEmpty},
			{CodeSessionExpired, ErrSessionExpired},
			{CodeInvalidACL, ErrInvalidACL},
			{CodeAuthFailed, ErrAuthFailed},
			{CodeClosing, ErrClosing},
			{CodeSessionMoved, ErrSessionMoved},
		}
		for _, tc := range tt {
			err := translateCode(tc.code)
			assert.Equal(t, tc.err, err, "code %d", tc.code)

			var keeperErr *KeeperError
			assert.False(t, errors.As(err, &keeperErr),
				"code %d must not fall back to the generic kind", tc.code)
		}
	})

	t.Run("unknown code falls back carrying the raw code", func(t *testing.T) {
		err := translateCode(ResultCode(-12345))
		assert.Error(t, err)

		var keeperErr *KeeperError
		assert.True(t, errors.As(err, &keeperErr))
		assert.Equal(t, ResultCode(-12345), keeperErr.Code)
		assert.Equal(t, "zkcoord: keeper failure (code -12345)", err.Error())
	})

	t.Run("positive unknown code", func(t *testing.T) {
		err := translateCode(ResultCode(42))
		var keeperErr *KeeperError
		assert.True(t, errors.As(err, &keeperErr))
		assert.Equal(t, ResultCode(42), keeperErr.Code)
	})
}
