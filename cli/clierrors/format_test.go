package clierrors

import (
	"errors"
	"testing"

	"github.com/brimdata/pqjson/zqe"
	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestFormat(t *testing.T) {
	assert.NoError(t, Format(nil))
	one := errors.New("a.parquet: boom")
	assert.Equal(t, one, Format(one))
	err := multierr.Combine(
		errors.New("a.parquet: no such file"),
		zqe.E(zqe.Decode, "b.parquet: parquet read failed"),
	)
	assert.EqualError(t, Format(err), "a.parquet: no such file\ndecode error: b.parquet: parquet read failed [decode]")
}
