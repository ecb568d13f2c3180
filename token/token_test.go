package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsComparison(t *testing.T) {
	require.True(t, IsComparison(LT))
	require.True(t, IsComparison(GT))
	require.True(t, IsComparison(EQ))
	require.True(t, IsComparison(NEQ))
	require.False(t, IsComparison(PLUS))
	require.False(t, IsComparison(ASSIGN))
}

func TestIsUpdate(t *testing.T) {
	require.True(t, IsUpdate(PLUSPLUS))
	require.True(t, IsUpdate(MINUSMINUS))
	require.False(t, IsUpdate(PLUS))
	require.False(t, IsUpdate(EOF))
}
