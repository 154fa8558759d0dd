package app

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload exportPayload
	}{
		{"empty book", exportPayload{Name: "Empty"}},
		{"single spell", exportPayload{Name: "One", Spells: []exportSpell{{ID: 42, Prepared: true}}}},
		{"several spells", exportPayload{Name: "Many", Spells: []exportSpell{
			{ID: 1, Prepared: false},
			{ID: 2, Prepared: true},
			{ID: 3, Prepared: false},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := encodeToken(tt.payload)
			require.NoError(t, err)
			assert.NotContains(t, token, "=", "token must be URL safe without padding")

			decoded, err := decodeToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.payload.Name, decoded.Name)
			assert.Equal(t, tt.payload.Spells, decoded.Spells)
		})
	}
}

func TestDecodeTokenRejectsCorruption(t *testing.T) {
	t.Parallel()

	valid, err := encodeToken(exportPayload{Name: "Book", Spells: []exportSpell{{ID: 1}}})
	require.NoError(t, err)

	t.Run("not base64", func(t *testing.T) {
		_, err := decodeToken("!!!not-base64!!!")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("base64 but not zstd", func(t *testing.T) {
		token := base64.RawURLEncoding.EncodeToString([]byte("plain bytes"))
		_, err := decodeToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("truncated token", func(t *testing.T) {
		_, err := decodeToken(valid[:len(valid)/2])
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non-positive spell id", func(t *testing.T) {
		token, err := encodeToken(exportPayload{Name: "Bad", Spells: []exportSpell{{ID: 0}}})
		require.NoError(t, err)
		_, err = decodeToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("surrounding whitespace is tolerated", func(t *testing.T) {
		decoded, err := decodeToken("  " + valid + "\n")
		require.NoError(t, err)
		assert.Equal(t, "Book", decoded.Name)
	})
}

func TestExportImport(t *testing.T) {
	t.Parallel()

	svc, _ := setupBookService(t)
	ctx := context.Background()

	book, err := svc.Create(ctx, "Original")
	require.NoError(t, err)
	require.NoError(t, svc.AddSpell(ctx, book.ID, 1))
	require.NoError(t, svc.AddSpell(ctx, book.ID, 2))
	require.NoError(t, svc.SetPrepared(ctx, book.ID, 1, true))

	token, err := svc.Export(ctx, book.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("same name conflicts without a rename", func(t *testing.T) {
		_, err := svc.Import(ctx, token, "")
		assert.ErrorIs(t, err, ErrNameConflict)
	})

	t.Run("rename resolves the conflict and restores state", func(t *testing.T) {
		imported, err := svc.Import(ctx, token, "Copy")
		require.NoError(t, err)
		assert.Equal(t, "Copy", imported.Name)

		detail, err := svc.Get(ctx, imported.ID)
		require.NoError(t, err)
		require.Len(t, detail.Spells, 2)
		assert.Equal(t, 1, detail.Spells[0].SpellID)
		assert.True(t, detail.Spells[0].Prepared)
		assert.Equal(t, 2, detail.Spells[1].SpellID)
		assert.False(t, detail.Spells[1].Prepared)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.Import(ctx, "garbage", "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("export of a missing book fails", func(t *testing.T) {
		_, err := svc.Export(ctx, 999)
		assert.ErrorIs(t, err, ErrSpellbookNotFound)
	})
}
