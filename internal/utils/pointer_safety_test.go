package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-company-auth/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestValueAndPtr(t *testing.T) {
	require.Equal(t, "", utils.Value[string](nil))
	require.Equal(t, 42, utils.Value(utils.Ptr(42)))
}

func TestOptionalString(t *testing.T) {
	require.Nil(t, utils.OptionalString(""))
	require.Nil(t, utils.OptionalString("   "))
	require.Equal(t, "acme", *utils.OptionalString("acme"))
}
