package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
)

// exportPayload is the structured form of a spellbook export token.
type exportPayload struct {
	Name   string        `json:"name"`
	Spells []exportSpell `json:"spells"`
}

type exportSpell struct {
	ID       int  `json:"id"`
	Prepared bool `json:"prepared"`
}

// maxTokenPayload bounds the decompressed size of an imported token; a
// legitimate spellbook is a few kilobytes at most.
const maxTokenPayload = 1 << 20

// Export serializes a spellbook into an opaque, reversible token:
// JSON, zstd-compressed, base64url-encoded.
func (s *SpellbookService) Export(ctx context.Context, bookID uint) (string, error) {
	if bookID == 0 {
		return "", ErrInvalidInput
	}
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book == nil {
		return "", ErrSpellbookNotFound
	}
	rows, err := s.bookRepo.Memberships(ctx, bookID)
	if err != nil {
		return "", err
	}

	payload := exportPayload{Name: book.Name, Spells: make([]exportSpell, 0, len(rows))}
	for _, row := range rows {
		payload.Spells = append(payload.Spells, exportSpell{ID: row.SpellID, Prepared: row.Prepared})
	}
	return encodeToken(payload)
}

// Import decodes a token and creates the spellbook it describes. When a
// spellbook of the same name already exists the caller must disambiguate
// with a rename; there is no silent merge or overwrite.
func (s *SpellbookService) Import(ctx context.Context, token, rename string) (*model.Spellbook, error) {
	payload, err := decodeToken(token)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(payload.Name)
	if rename = strings.TrimSpace(rename); rename != "" {
		name = rename
	}
	if name == "" {
		return nil, ErrInvalidToken
	}

	existing, err := s.bookRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameConflict
	}

	book := &model.Spellbook{Name: name}
	spells := make([]model.SpellbookSpell, 0, len(payload.Spells))
	for _, sp := range payload.Spells {
		spells = append(spells, model.SpellbookSpell{SpellID: sp.ID, Prepared: sp.Prepared})
	}
	if err := s.bookRepo.CreateWithSpells(ctx, book, spells); err != nil {
		return nil, err
	}
	return book, nil
}

func encodeToken(payload exportPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal spellbook payload failed: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return "", fmt.Errorf("create token compressor failed: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return "", fmt.Errorf("compress spellbook payload failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("compress spellbook payload failed: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// decodeToken is the exact inverse of encodeToken. Any corruption at any
// layer yields ErrInvalidToken; a partially-decoded payload is never
// returned.
func decodeToken(token string) (*exportPayload, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	dec, err := zstd.NewReader(bytes.NewReader(compressed),
		zstd.WithDecoderMaxMemory(maxTokenPayload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(io.LimitReader(dec.IOReadCloser(), maxTokenPayload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var payload exportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	for _, sp := range payload.Spells {
		if sp.ID <= 0 {
			return nil, fmt.Errorf("%w: bad spell id %d", ErrInvalidToken, sp.ID)
		}
	}
	return &payload, nil
}
