package domain

import (
	"strings"
	"testing"

	"txboundary/internal/txpolicy"

	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	require.True(t, ValidateUsername("kim"))
	require.False(t, ValidateUsername(""))
	require.False(t, ValidateUsername("   "))
	require.False(t, ValidateUsername(strings.Repeat("a", 65)))
}

func TestParsePayStatus(t *testing.T) {
	t.Parallel()
	st, ok := ParsePayStatus("waiting")
	require.True(t, ok)
	require.Equal(t, PayStatusWaiting, st)
	_, ok = ParsePayStatus("paid")
	require.False(t, ok)
}

func TestPaymentFailureClassification(t *testing.T) {
	t.Parallel()
	require.Equal(t, txpolicy.Unrecoverable, txpolicy.Classify(ErrSystem))
	require.Equal(t, txpolicy.Recoverable, txpolicy.Classify(ErrNotEnoughMoney))
	require.Equal(t, txpolicy.Unrecoverable, txpolicy.Classify(ErrNotFound))
}
