package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ovseenko/linkcut/internal/models"
	"github.com/ovseenko/linkcut/internal/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubGenerator выдаёт заранее заданные коды, последний повторяется
type stubGenerator struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *stubGenerator) Generate(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next >= len(g.codes) {
		return g.codes[len(g.codes)-1], nil
	}
	code := g.codes[g.next]
	g.next++
	return code, nil
}

// failingIncrementRepo симулирует сбой хранилища на шаге инкремента
type failingIncrementRepo struct {
	*repository.MemoryRepository
}

func (r *failingIncrementRepo) IncrementClicks(_ context.Context, _ string) (int64, error) {
	return 0, fmt.Errorf("%w: connection reset", repository.ErrStoreUnavailable)
}

func newTestService(repo repository.Repository) *Service {
	return NewService(repo, NewCodeGenerator(repo, 0), nil, "http://localhost:8080", "secret", zap.NewNop())
}

func TestService_CreateLink(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	// Тест 1: Успешное создание
	link, err := svc.CreateLink(ctx, "user-1", "https://example.com")
	assert.NoError(t, err, "CreateLink should not return error")
	assert.Len(t, link.Code, 6, "Code should be 6 characters long")
	assert.NotZero(t, link.ID, "Link must have an assigned ID")
	assert.Equal(t, "user-1", link.OwnerID)
	assert.Equal(t, int64(0), link.ClickCount)

	// Тест 2: Пустой URL
	_, err = svc.CreateLink(ctx, "user-1", "")
	assert.ErrorIs(t, err, ErrEmptyURL, "CreateLink should reject empty URL")

	// Тест 3: Короткий URL собирается из базового
	assert.Equal(t, "http://localhost:8080/"+link.Code, svc.ShortURL(link.Code))
}

func TestService_ResolveLink(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	link, err := svc.CreateLink(ctx, "user-1", "https://example.com")
	assert.NoError(t, err)

	// Тест 1: Разрешение возвращает исходный URL без изменений
	url, err := svc.ResolveLink(ctx, link.Code)
	assert.NoError(t, err, "ResolveLink should not return error")
	assert.Equal(t, "https://example.com", url, "URL should match the one given to CreateLink")

	// Тест 2: Каждое успешное разрешение учитывается ровно один раз
	got, err := repo.FindByCode(ctx, link.Code)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), got.ClickCount, "Click count should be 1 after one resolution")

	_, err = svc.ResolveLink(ctx, link.Code)
	assert.NoError(t, err)
	got, err = repo.FindByCode(ctx, link.Code)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), got.ClickCount)

	// Тест 3: Неизвестный код — штатный исход, а не сбой
	_, err = svc.ResolveLink(ctx, "doesnotexist")
	assert.ErrorIs(t, err, repository.ErrNotFound, "Unknown code should resolve to ErrNotFound")

	// Разрешение несуществующего кода не должно создавать записей
	stats, err := repo.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stats.Links, "Resolve must not create records as a side effect")
}

func TestService_ResolveLink_IncrementFailure(t *testing.T) {
	repo := &failingIncrementRepo{repository.NewMemoryRepository()}
	svc := NewService(repo, NewCodeGenerator(repo, 0), nil, "http://localhost:8080", "secret", zap.NewNop())
	ctx := context.Background()

	link, err := svc.CreateLink(ctx, "user-1", "https://example.com")
	assert.NoError(t, err)

	// Редирект обслуживается даже при сбое учёта переходов
	url, err := svc.ResolveLink(ctx, link.Code)
	assert.NoError(t, err, "Redirect availability wins over accounting accuracy")
	assert.Equal(t, "https://example.com", url)
}

func TestService_CreateLink_CollisionRetry(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	// Занимаем код, который генератор выдаст первым
	_, err := repo.Insert(ctx, models.Link{OwnerID: "user-0", OriginalURL: "https://taken.com", Code: "taken1"})
	assert.NoError(t, err)

	gen := &stubGenerator{codes: []string{"taken1", "fresh2"}}
	svc := NewService(repo, gen, nil, "http://localhost:8080", "secret", zap.NewNop())

	// Коллизия гасится повторной попыткой со следующим кодом
	link, err := svc.CreateLink(ctx, "user-1", "https://example.com")
	assert.NoError(t, err, "CreateLink should recover from a collision")
	assert.Equal(t, "fresh2", link.Code, "Second distinct code should be used")

	// Исходная запись не затронута
	got, err := repo.FindByCode(ctx, "taken1")
	assert.NoError(t, err)
	assert.Equal(t, "https://taken.com", got.OriginalURL)
}

func TestService_CreateLink_Exhaustion(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, models.Link{OwnerID: "user-0", OriginalURL: "https://taken.com", Code: "taken1"})
	assert.NoError(t, err)

	// Генератор всегда выдаёт занятый код: бюджет повторов должен
	// закончиться ошибкой, а не бесконечным циклом
	gen := &stubGenerator{codes: []string{"taken1"}}
	svc := NewService(repo, gen, nil, "http://localhost:8080", "secret", zap.NewNop())

	_, err = svc.CreateLink(ctx, "user-1", "https://example.com")
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted, "Expected ErrCodeSpaceExhausted when the retry budget is spent")
}

func TestService_ConcurrentCreateUniqueness(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	const workers = 100
	codes := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			link, err := svc.CreateLink(ctx, "user-1", fmt.Sprintf("https://example.com/%d", i))
			assert.NoError(t, err)
			codes[i] = link.Code
		}(i)
	}
	wg.Wait()

	// Все коды должны быть уникальны
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code)
		assert.False(t, seen[code], "Codes must be globally unique under concurrent creation")
		seen[code] = true
	}
}

func TestService_ConcurrentResolveMonotonicity(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	link, err := svc.CreateLink(ctx, "user-1", "https://example.com")
	assert.NoError(t, err)

	const clicks = 100
	var wg sync.WaitGroup
	wg.Add(clicks)
	for i := 0; i < clicks; i++ {
		go func() {
			defer wg.Done()
			url, err := svc.ResolveLink(ctx, link.Code)
			assert.NoError(t, err)
			assert.Equal(t, "https://example.com", url)
		}()
	}
	wg.Wait()

	// Счётчик равен числу успешных разрешений: ни потерянных, ни лишних
	got, err := repo.FindByCode(ctx, link.Code)
	assert.NoError(t, err)
	assert.Equal(t, int64(clicks), got.ClickCount, "Count must equal the number of successful resolutions")
}

func TestService_LinksByOwner(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.CreateLink(ctx, "user-1", "https://example.com")
	assert.NoError(t, err)
	_, err = svc.CreateLink(ctx, "user-1", "https://example.org")
	assert.NoError(t, err)
	_, err = svc.CreateLink(ctx, "user-2", "https://other.com")
	assert.NoError(t, err)

	_, err = svc.ResolveLink(ctx, first.Code)
	assert.NoError(t, err)

	links, err := svc.LinksByOwner(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, links, 2, "Should return only the owner's links")

	for _, l := range links {
		if l.Code == first.Code {
			assert.Equal(t, int64(1), l.ClickCount, "Listing should expose click counts")
		}
	}

	links, err = svc.LinksByOwner(ctx, "unknown_user")
	assert.NoError(t, err)
	assert.Len(t, links, 0)
}

func TestJWT(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)

	// Тест 1: GenerateOwnerID успех
	ownerID, err := svc.GenerateOwnerID()
	assert.NoError(t, err, "GenerateOwnerID should not return error")
	assert.Len(t, ownerID, 8, "OwnerID should be 8 characters long")

	// Тест 2: GenerateJWT и ParseJWT успех
	token, err := svc.GenerateJWT(ownerID)
	assert.NoError(t, err, "GenerateJWT should not return error")
	parsed, err := svc.ParseJWT(token)
	assert.NoError(t, err, "ParseJWT should not return error")
	assert.Equal(t, ownerID, parsed, "Parsed OwnerID should match")

	// Тест 3: ParseJWT с некорректным токеном
	_, err = svc.ParseJWT("invalid.token")
	assert.ErrorIs(t, err, ErrInvalidToken, "ParseJWT should return ErrInvalidToken")

	// Тест 4: ParseJWT с неверным секретом
	other := NewService(repo, NewCodeGenerator(repo, 0), nil, "http://localhost:8080", "wrong_secret", zap.NewNop())
	_, err = other.ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "ParseJWT should return ErrInvalidToken with wrong secret")
}

func TestService_CreateLink_StoreFailurePropagates(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	svc := newTestService(repo)
	cancel()

	// Отменённый контекст прерывает создание, а не уходит в повторы
	_, err := svc.CreateLink(ctx, "user-1", "https://example.com")
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrCodeSpaceExhausted))
}
