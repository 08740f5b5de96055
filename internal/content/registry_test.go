package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossvale/delve-bot-discord/internal/content"
	domcontent "github.com/mossvale/delve-bot-discord/internal/domain/content"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := content.NewRegistry[*domcontent.Item]()
	item := &domcontent.Item{Key: "healing_potion", Name: "Potion of Healing", Rarity: "common"}

	require.NoError(t, registry.Register("healing_potion", item, "potion", "Potion of Healing"))

	got, err := registry.Get("healing_potion")
	require.NoError(t, err)
	assert.Same(t, item, got)

	// Aliases resolve through the same table.
	got, err = registry.Get("potion")
	require.NoError(t, err)
	assert.Same(t, item, got)

	// Lookup normalizes case and whitespace.
	got, err = registry.Get("  Potion of Healing ")
	require.NoError(t, err)
	assert.Same(t, item, got)
}

func TestRegistry_DuplicateKeyFails(t *testing.T) {
	registry := content.NewRegistry[*domcontent.Item]()
	require.NoError(t, registry.Register("torch", &domcontent.Item{Key: "torch"}))

	err := registry.Register("Torch", &domcontent.Item{Key: "torch"})
	require.Error(t, err)
	assert.True(t, dnderr.IsAlreadyExists(err))
}

func TestRegistry_UnknownKeyNotFound(t *testing.T) {
	registry := content.NewRegistry[*domcontent.Item]()

	_, err := registry.Get("vorpal sword")
	require.Error(t, err)
	assert.True(t, dnderr.IsNotFound(err))
}

func TestRegistry_KeysPreserveInsertionOrder(t *testing.T) {
	registry := content.NewRegistry[*domcontent.Item]()
	for _, key := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, registry.Register(key, &domcontent.Item{Key: key}))
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, registry.Keys())
	assert.Equal(t, 3, registry.Len())
}
