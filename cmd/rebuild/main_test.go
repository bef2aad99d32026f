package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgramIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := parseProgramIDs(" " + a.String() + ", ," + b.String() + "," + a.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	ids, err = parseProgramIDs("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = parseProgramIDs("not-a-uuid")
	assert.Error(t, err)
}
