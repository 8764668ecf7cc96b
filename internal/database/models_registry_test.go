package database

import (
	"testing"

	modelspkg "smartchecklist/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesItems(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.Item); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Item")
}
