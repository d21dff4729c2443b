package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUnavailableBeforeConnect(t *testing.T) {
	s := NewStore(Credentials{Host: "localhost", Port: "3306", Name: "zerowaste"})

	assert.False(t, s.Ready())
	db, err := s.DB()
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, db)
}

func TestStoreCloseWithoutConnect(t *testing.T) {
	s := NewStore(Credentials{})
	require.NoError(t, s.Close())
}
