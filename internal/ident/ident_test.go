package ident

import (
	"testing"

	"desicargo-backend/internal/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	want := uuid.New()

	got, err := Parse(want.String())
	require.NoError(t, err)
	require.Equal(t, want, got)

	for _, bad := range []string{"", "123", "{" + want.String() + "}", "urn:uuid:" + want.String(), "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"} {
		_, err := Parse(bad)
		require.Error(t, err, bad)
		require.True(t, apperr.IsInvalidIdentifier(err), bad)
	}
}

func TestParseOptional(t *testing.T) {
	id, err := ParseOptional("  ")
	require.NoError(t, err)
	require.Nil(t, id)

	_, err = ParseOptional("not-a-uuid")
	require.True(t, apperr.IsInvalidIdentifier(err))

	want := uuid.New()
	id, err = ParseOptional(want.String())
	require.NoError(t, err)
	require.Equal(t, want, *id)
}
