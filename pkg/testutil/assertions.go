package testutil

import (
	"testing"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/stretchr/testify/assert"
)

// AssertErrorCode checks that err carries the given code.
func AssertErrorCode(t *testing.T, err error, code errors.ErrorCode, msgAndArgs ...interface{}) bool {
	t.Helper()
	if !assert.Error(t, err, msgAndArgs...) {
		return false
	}
	return assert.Equal(t, code, errors.GetErrorCode(err), msgAndArgs...)
}

// AssertNames checks the entry names, in order.
func AssertNames(t *testing.T, expected []string, entries []types.Entry, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.Equal(t, expected, types.Names(entries), msgAndArgs...)
}

// AssertContainsName checks that an entry with name is present.
func AssertContainsName(t *testing.T, entries []types.Entry, name string) bool {
	t.Helper()
	return assert.Contains(t, types.Names(entries), name)
}

// AssertNotContainsName checks that no entry has name.
func AssertNotContainsName(t *testing.T, entries []types.Entry, name string) bool {
	t.Helper()
	return assert.NotContains(t, types.Names(entries), name)
}
