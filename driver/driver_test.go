package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutputPathUsesFlagWhenGiven(t *testing.T) {
	require.Equal(t, "myprog", OutputPath("prog.sas", "myprog"))
}

func TestOutputPathStripsSasExtension(t *testing.T) {
	require.Equal(t, "prog", OutputPath("prog.sas", ""))
}

func TestOutputPathLeavesNonSasNameAlone(t *testing.T) {
	require.Equal(t, "prog", OutputPath("prog", ""))
}

func TestOutputPathTrimsWhitespace(t *testing.T) {
	require.Equal(t, "prog", OutputPath("  prog.sas  ", ""))
}
