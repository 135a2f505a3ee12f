package handlers

import (
	"context"
	"sync"
	"testing"

	"github.com/ainews/apiserver/config"
	"github.com/ainews/apiserver/internal/security"
	"github.com/ainews/apiserver/internal/services"
	"github.com/ainews/apiserver/internal/store"
	"github.com/ainews/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory services.UserRepository. It mirrors the
// database's unique constraints on email and username.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]types.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

// fakeArticleRepo is an in-memory services.ArticleRepository.
type fakeArticleRepo struct {
	mu       sync.Mutex
	nextID   int
	articles map[int]types.Article

	// lastFilter records the most recent List call for assertions.
	lastFilter types.ArticleFilter
	lastOffset int
	lastLimit  int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{nextID: 1, articles: make(map[int]types.Article)}
}

func (r *fakeArticleRepo) List(ctx context.Context, filter types.ArticleFilter, offset, limit int) ([]types.Article, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	r.lastOffset = offset
	r.lastLimit = limit

	all := make([]types.Article, 0, len(r.articles))
	for id := 1; id < r.nextID; id++ {
		if article, ok := r.articles[id]; ok {
			all = append(all, article)
		}
	}
	total := len(all)
	if offset >= total {
		return []types.Article{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeArticleRepo) Get(ctx context.Context, id int) (types.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return types.Article{}, store.ErrNotFound
	}
	return article, nil
}

func (r *fakeArticleRepo) Create(ctx context.Context, article types.Article) (types.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.articles {
		if existing.URL == article.URL {
			return types.Article{}, store.ErrConflict
		}
	}
	article.ID = r.nextID
	r.nextID++
	r.articles[article.ID] = article
	return article, nil
}

func (r *fakeArticleRepo) Update(ctx context.Context, article types.Article) (types.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[article.ID]; !ok {
		return types.Article{}, store.ErrNotFound
	}
	r.articles[article.ID] = article
	return article, nil
}

func (r *fakeArticleRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.articles, id)
	return nil
}

// fakeSourceRepo is an in-memory services.SourceRepository.
type fakeSourceRepo struct {
	mu      sync.Mutex
	nextID  int
	sources map[int]types.NewsSource
}

func newFakeSourceRepo() *fakeSourceRepo {
	return &fakeSourceRepo{nextID: 1, sources: make(map[int]types.NewsSource)}
}

func (r *fakeSourceRepo) List(ctx context.Context, offset, limit int) ([]types.NewsSource, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]types.NewsSource, 0, len(r.sources))
	for id := 1; id < r.nextID; id++ {
		if source, ok := r.sources[id]; ok {
			all = append(all, source)
		}
	}
	total := len(all)
	if offset >= total {
		return []types.NewsSource{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeSourceRepo) Get(ctx context.Context, id int) (types.NewsSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, ok := r.sources[id]
	if !ok {
		return types.NewsSource{}, store.ErrNotFound
	}
	return source, nil
}

func (r *fakeSourceRepo) Create(ctx context.Context, source types.NewsSource) (types.NewsSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	source.ID = r.nextID
	r.nextID++
	r.sources[source.ID] = source
	return source, nil
}

// fakePreferenceRepo is an in-memory services.PreferenceRepository
// keyed by user.
type fakePreferenceRepo struct {
	mu          sync.Mutex
	nextID      int
	preferences map[int][]types.UserPreference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{nextID: 1, preferences: make(map[int][]types.UserPreference)}
}

func (r *fakePreferenceRepo) ListByUser(ctx context.Context, userID int) ([]types.UserPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.preferences[userID]
	out := make([]types.UserPreference, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *fakePreferenceRepo) Replace(ctx context.Context, userID int, preferences []types.UserPreference) ([]types.UserPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]types.UserPreference, 0, len(preferences))
	for _, preference := range preferences {
		preference.ID = r.nextID
		r.nextID++
		preference.UserID = userID
		stored = append(stored, preference)
	}
	r.preferences[userID] = stored
	out := make([]types.UserPreference, len(stored))
	copy(out, stored)
	return out, nil
}

type testEnv struct {
	router         *chi.Mux
	issuer         *security.TokenIssuer
	userRepo       *fakeUserRepo
	articleRepo    *fakeArticleRepo
	sourceRepo     *fakeSourceRepo
	preferenceRepo *fakePreferenceRepo
}

// newTestEnv wires handlers over in-memory fakes, mirroring the
// production router layout.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		ProjectName:              "AI News Aggregator",
		Version:                  "1.0.0",
		Environment:              "test",
		SecretKey:                "handler-test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
	}

	issuer, err := security.NewTokenIssuer(cfg)
	require.NoError(t, err)

	userRepo := newFakeUserRepo()
	articleRepo := newFakeArticleRepo()
	sourceRepo := newFakeSourceRepo()
	preferenceRepo := newFakePreferenceRepo()

	userService := services.NewUserService(userRepo)
	articleService := services.NewArticleService(articleRepo)
	sourceService := services.NewSourceService(sourceRepo)
	preferenceService := services.NewPreferenceService(preferenceRepo)

	guard := NewAccessGuard(issuer, userService)
	authHandler := NewAuthHandler(userService, issuer)
	articleHandler := NewArticleHandler(articleService)
	sourceHandler := NewSourceHandler(sourceService)
	preferenceHandler := NewPreferenceHandler(preferenceService)

	router := chi.NewRouter()
	router.Get("/", Root(cfg))
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, authHandler, guard)
	})
	router.Route("/articles", func(r chi.Router) {
		ArticleRouter(r, articleHandler, guard)
	})
	router.Route("/sources", func(r chi.Router) {
		SourceRouter(r, sourceHandler, guard)
	})
	router.Route("/users/me/preferences", func(r chi.Router) {
		PreferenceRouter(r, preferenceHandler, guard)
	})

	return &testEnv{
		router:         router,
		issuer:         issuer,
		userRepo:       userRepo,
		articleRepo:    articleRepo,
		sourceRepo:     sourceRepo,
		preferenceRepo: preferenceRepo,
	}
}

// seedUser inserts a user with a real bcrypt hash and returns it.
func (e *testEnv) seedUser(t *testing.T, email, username, password string, active, superuser bool) types.User {
	t.Helper()
	hashed, err := security.HashPassword(password)
	require.NoError(t, err)
	user, err := e.userRepo.Create(context.Background(), types.User{
		Email:          email,
		Username:       username,
		HashedPassword: hashed,
		IsActive:       active,
		IsSuperuser:    superuser,
	})
	require.NoError(t, err)
	return user
}
