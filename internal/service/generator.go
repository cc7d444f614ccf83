package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/ovseenko/linkcut/internal/repository"
)

const (
	// codeAlphabet — 62 символа: 56.8 млрд кодов при длине 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 6
	// retryBudget ограничивает число попыток подбора свободного кода.
	// Превышение означает, что пространство кодов близко к насыщению
	// либо хранилище стабильно недоступно
	retryBudget = 256
)

// Generator выдаёт кандидат короткого кода, свободный на момент выдачи
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// CodeGenerator реализует Generator случайным равномерным выбором из алфавита.
// Проверка занятости в хранилище лишь снижает вероятность коллизии:
// окончательная гарантия уникальности — атомарная вставка в Repository
type CodeGenerator struct {
	repo   repository.Repository
	length int
	budget int
}

// NewCodeGenerator создаёт генератор кодов. При length <= 0 используется длина 6
func NewCodeGenerator(repo repository.Repository, length int) *CodeGenerator {
	if length <= 0 {
		length = codeLength
	}
	return &CodeGenerator{
		repo:   repo,
		length: length,
		budget: retryBudget,
	}
}

// Generate подбирает свободный код за ограниченное число попыток.
// Цикл вместо рекурсии: глубина стека не зависит от числа коллизий
func (g *CodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.budget; attempt++ {
		code, err := randomCode(g.length)
		if err != nil {
			return "", err
		}
		_, err = g.repo.FindByCode(ctx, code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// Код занят, пробуем следующий
	}
	return "", ErrCodeSpaceExhausted
}

// randomCode возвращает строку длины n с равномерным распределением по алфавиту
func randomCode(n int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, n)
	for i := range code {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[idx.Int64()]
	}
	return string(code), nil
}
