package diags

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/reusee/bastapir/logs"
	"github.com/reusee/bastapir/modes"
	"github.com/reusee/dscope"
	"github.com/stretchr/testify/require"
)

func TestLocationString(t *testing.T) {
	src := Source{Path: "game.bas"}
	require.Equal(t, "game.bas:3:7", src.At(3, 7).String())
	require.Equal(t, "game.bas", src.Location().String())
	require.Equal(t, "", Location{}.String())
	require.Equal(t, "2:1", Location{Line: 2, Column: 1}.String())
}

func TestError(t *testing.T) {
	base := errors.New("unterminated string")
	err := At(Source{Path: "a.bas"}.At(1, 4), base)
	require.EqualError(t, err, "a.bas:1:4: unterminated string")
	require.ErrorIs(t, err, base)

	loc, ok := LocationOf(err)
	require.True(t, ok)
	require.Equal(t, 4, loc.Column)

	require.NoError(t, At(Location{}, nil))
}

func TestLog(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module), modes.ForTest(t)).Fork(
		func() logs.Writer {
			return buf
		},
	).Call(func(
		newLog NewLog,
	) {
		log := newLog(context.Background())
		log.Warning(Source{Path: "a.bas"}.Location(), "name truncated")
		log.Error(Source{Path: "a.bas"}.At(2, 1), "Nonsense in BASIC.")
		log.Error(Location{}, "BASIC program is empty.")
		log.Info(Location{}, "done")

		require.Equal(t, 2, log.ErrorCount())
		require.Equal(t, 1, log.WarningCount())
		require.Len(t, log.Diagnostics(), 4)
		require.Equal(t, "a.bas:2:1: error: Nonsense in BASIC.", log.Diagnostics()[1].String())

		err := log.Err()
		require.Error(t, err)
		require.Contains(t, err.Error(), "a.bas:2:1: Nonsense in BASIC.")
		require.Contains(t, err.Error(), "BASIC program is empty.")

		require.Contains(t, buf.String(), "level=WARN msg=\"name truncated\" file=a.bas")
		require.Contains(t, buf.String(), "line=2 column=1")
	})
}
