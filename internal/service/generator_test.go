package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ovseenko/linkcut/internal/models"
	"github.com/ovseenko/linkcut/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestRandomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := randomCode(codeLength)
		assert.NoError(t, err, "randomCode should not return error")
		assert.Len(t, code, codeLength, "Code should have fixed length")
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, c), "Code must use only the 62-symbol alphabet")
		}
		seen[code] = true
	}
	// 100 кодов из пространства 62^6 практически не должны повторяться
	assert.Greater(t, len(seen), 95, "Codes should be effectively unique")
}

func TestCodeGenerator_Generate(t *testing.T) {
	repo := repository.NewMemoryRepository()
	gen := NewCodeGenerator(repo, 0)

	code, err := gen.Generate(context.Background())
	assert.NoError(t, err, "Generate should not return error")
	assert.Len(t, code, codeLength, "Default length should be 6")
}

func TestCodeGenerator_SkipsOccupiedCode(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	// Занимаем часть пространства длины 2: генератор обязан выдать свободный код
	occupied := map[string]bool{}
	for _, a := range codeAlphabet[:8] {
		for _, b := range codeAlphabet[:8] {
			code := string(a) + string(b)
			occupied[code] = true
			_, err := repo.Insert(ctx, models.Link{OwnerID: "u", OriginalURL: "https://example.com", Code: code})
			assert.NoError(t, err)
		}
	}

	gen := NewCodeGenerator(repo, 2)
	for i := 0; i < 20; i++ {
		code, err := gen.Generate(ctx)
		assert.NoError(t, err)
		assert.False(t, occupied[code], "Generate must not return an occupied code")
	}
}

func TestCodeGenerator_Exhaustion(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	// Занимаем всё пространство кодов длины 1
	for _, c := range codeAlphabet {
		_, err := repo.Insert(ctx, models.Link{OwnerID: "u", OriginalURL: "https://example.com", Code: string(c)})
		assert.NoError(t, err)
	}

	// Генератор обязан завершиться в пределах бюджета, а не зависнуть
	gen := NewCodeGenerator(repo, 1)
	_, err := gen.Generate(ctx)
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted, "Expected ErrCodeSpaceExhausted on a saturated code space")
}
