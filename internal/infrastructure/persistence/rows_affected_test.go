package persistence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResult struct {
	n   int64
	err error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.n, r.err }

func TestRowsAffected(t *testing.T) {
	n, err := rowsAffected(stubResult{n: 1}, "update request status")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	driverErr := errors.New("rows affected unsupported")
	_, err = rowsAffected(stubResult{err: driverErr}, "update request status")
	assert.ErrorIs(t, err, driverErr)
	assert.EqualError(t, err, "failed to update request status: rows affected unsupported")
}
