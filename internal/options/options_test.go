package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	value int
	name  string
}

func TestApply(t *testing.T) {
	tgt := &target{}
	err := Apply(tgt,
		NoError(func(tg *target) { tg.value = 42 }),
		NoError(func(tg *target) { tg.name = "ok" }),
	)
	require.NoError(t, err)
	require.Equal(t, 42, tgt.value)
	require.Equal(t, "ok", tgt.name)
}

func TestApply_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	tgt := &target{}
	err := Apply(tgt,
		New(func(tg *target) error { return boom }),
		NoError(func(tg *target) { tg.value = 1 }),
	)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, tgt.value)
}

func TestApply_NoOptions(t *testing.T) {
	require.NoError(t, Apply(&target{}))
}
