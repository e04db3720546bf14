package usecase

import (
	"testing"
	"time"

	"multisig/infrastructure/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmergencyLastExecution(t *testing.T) {
	interactor := NewMemoInteractor(memstore.New().Memos())

	last, err := interactor.GetEmergencyLastExecution()
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	now := time.Unix(1700000000, 0)
	require.NoError(t, interactor.SetEmergencyLastExecution(now))

	last, err = interactor.GetEmergencyLastExecution()
	require.NoError(t, err)
	assert.True(t, last.Equal(now))
}
