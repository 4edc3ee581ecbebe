package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/boardhub/api/internal/auth"
	"github.com/boardhub/api/internal/middleware"
	"github.com/boardhub/api/internal/model"
	"github.com/boardhub/api/internal/ratelimit"
	"github.com/boardhub/api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "handler-test-secret"

type testEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	revocations *auth.RevocationStore
}

// newTestEnv wires the full API surface against an in-memory database, the
// same way cmd/server does against postgres.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.Article{},
		&model.RevokedToken{},
	))

	revocations := auth.NewRevocationStore(db, nil)
	limiter := ratelimit.New(store.NewArticles(db))
	locks := ratelimit.NewLocks()

	userHandler := NewUserHandler(db, testSecret, revocations)
	boardHandler := NewBoardHandler(db)
	articleHandler := NewArticleHandler(db, limiter, locks)

	router := gin.New()
	api := router.Group("/api")

	api.POST("/users/signUp", userHandler.SignUp)
	api.POST("/users/login", userHandler.Login)
	api.POST("/users/logout", userHandler.Logout)
	api.POST("/users/logout/all", userHandler.LogoutAll)
	api.POST("/users/token/validation", userHandler.ValidateToken)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(testSecret, revocations))
	authed.GET("/users", userHandler.List)
	authed.DELETE("/users/:id", userHandler.Delete)
	authed.GET("/boards", boardHandler.List)
	authed.GET("/boards/:boardId", boardHandler.Get)
	authed.POST("/boards/:boardId/articles", articleHandler.Write)
	authed.GET("/boards/:boardId/articles", articleHandler.List)
	authed.GET("/boards/:boardId/articles/:articleId", articleHandler.Get)
	authed.PUT("/boards/:boardId/articles/:articleId", articleHandler.Edit)
	authed.DELETE("/boards/:boardId/articles/:articleId", articleHandler.Delete)

	return &testEnv{router: router, db: db, revocations: revocations}
}

func (e *testEnv) createUser(t *testing.T, username, password string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username: username,
		Password: string(hashed),
		Email:    username + "@example.com",
		Role:     "USER",
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createBoard(t *testing.T, name string) *model.Board {
	t.Helper()

	board := &model.Board{Name: name}
	require.NoError(t, e.db.Create(board).Error)
	return board
}

// createArticle inserts a fixture row directly, bypassing the rate limiter.
func (e *testEnv) createArticle(t *testing.T, author *model.User, board *model.Board, createdAt time.Time) *model.Article {
	t.Helper()

	article := &model.Article{
		Title:     "title",
		Content:   "content",
		AuthorID:  author.ID,
		BoardID:   board.ID,
		CreatedAt: createdAt,
	}
	require.NoError(t, e.db.Create(article).Error)
	return article
}

func (e *testEnv) token(t *testing.T, username string) string {
	t.Helper()

	token, err := auth.IssueToken(username, time.Now(), testSecret)
	require.NoError(t, err)
	return token
}

type testRequest struct {
	method string
	path   string
	body   string
	token  string
	cookie string
}

func (e *testEnv) do(t *testing.T, r testRequest) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if r.body != "" {
		req = httptest.NewRequest(r.method, r.path, strings.NewReader(r.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(r.method, r.path, nil)
	}

	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: r.cookie})
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
