package zkcoord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePath(t *testing.T) {
	tt := []struct {
		path  string
		seq   bool
		valid bool
	}{
		{"/this is / a valid/path", false, true},
		{"/", false, true},
		{"", false, false},
		{"not/valid", false, false},
		{"/ends/with/slash/", false, false},
		{"/sequential/", true, true},
		{"/test\u0000", false, false},
		{"/double//slash", false, false},
		{"/single/./period", false, false},
		{"/double/../period", false, false},
		{"/double/..ok/period", false, true},
		{"/double/alsook../period", false, true},
		{"/double/period/at/end/..", false, false},
		{"/name/with.period", false, true},
		{"/test\u0001", false, false},
		{"/test\u001f", false, false},
		{"/test\u0020", false, true}, // first allowable
		{"/test\u007e", false, true}, // last valid ascii
		{"/test\u007f", false, false},
		{"/test\u009f", false, false},
		{"/test\uf8ff", false, false},
		{"/test\uffef", false, true},
		{"/test\ufff0", false, false},
	}

	for _, tc := range tt {
		err := ValidatePath(tc.path, tc.seq)
		if (err != nil) == tc.valid {
			t.Errorf("failed to validate path %q", tc.path)
		}
	}
}

func TestParentPath(t *testing.T) {
	t.Run("deep", func(t *testing.T) {
		assert.Equal(t, "/a/b", parentPath("/a/b/c"))
	})

	t.Run("first level", func(t *testing.T) {
		assert.Equal(t, "/", parentPath("/a"))
	})

	t.Run("root", func(t *testing.T) {
		assert.Equal(t, "/", parentPath("/"))
	})
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/a/b", joinPath("/a", "b"))
	assert.Equal(t, "/a", joinPath("/", "a"))
}
