package dbcheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenRequiresDSN(t *testing.T) {
	_, err := OpenNewCore(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDSN)

	_, err = OpenLegacy(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestOpenNewCoreRejectsMalformedDSN(t *testing.T) {
	_, err := OpenNewCore(context.Background(), "postgres://%zz")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDSN)
}
