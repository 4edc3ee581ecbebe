package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/boardhub/api/internal/auth"
	"github.com/boardhub/api/internal/middleware"
	"github.com/boardhub/api/internal/model"
	"github.com/boardhub/api/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pageSize = 10

type ArticleHandler struct {
	db      *gorm.DB
	limiter *ratelimit.Limiter
	locks   *ratelimit.Locks
}

func NewArticleHandler(db *gorm.DB, limiter *ratelimit.Limiter, locks *ratelimit.Locks) *ArticleHandler {
	return &ArticleHandler{db: db, limiter: limiter, locks: locks}
}

type WriteArticleRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type EditArticleRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Write creates an article on a board. The author's lock is held across the
// cooldown check and the insert so two concurrent submissions cannot both
// pass the check.
func (h *ArticleHandler) Write(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	boardID, ok := parseID(c, "boardId", "invalid board ID")
	if !ok {
		return
	}

	var req WriteArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}

	var board model.Board
	if err := h.db.First(&board, boardID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return
	}

	lock := h.locks.Author(user.ID)
	lock.Lock()
	defer lock.Unlock()

	allowed, err := h.limiter.CanWrite(c.Request.Context(), user.ID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check write cooldown"})
		return
	}
	if !allowed {
		middleware.RecordRateLimitRejection("write")
		c.JSON(http.StatusForbidden, gin.H{"error": ratelimit.ErrWriteLimited.Error()})
		return
	}

	article := model.Article{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: user.ID,
		BoardID:  boardID,
	}
	if err := h.db.Create(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create article"})
		return
	}

	h.db.Preload("Author").First(&article, article.ID)
	c.JSON(http.StatusCreated, article)
}

// List returns the newest 10 non-deleted articles of a board. ?lastId= pages
// backwards (older than the given article), ?firstId= forwards.
func (h *ArticleHandler) List(c *gin.Context) {
	boardID, ok := parseID(c, "boardId", "invalid board ID")
	if !ok {
		return
	}

	var board model.Board
	if err := h.db.First(&board, boardID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return
	}

	query := h.db.Preload("Author").
		Where("board_id = ? AND is_deleted = ?", boardID, false).
		Order("created_at DESC").
		Limit(pageSize)

	if lastID := c.Query("lastId"); lastID != "" {
		id, err := strconv.ParseInt(lastID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lastId"})
			return
		}
		query = query.Where("id < ?", id)
	} else if firstID := c.Query("firstId"); firstID != "" {
		id, err := strconv.ParseInt(firstID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid firstId"})
			return
		}
		query = query.Where("id > ?", id)
	}

	var articles []model.Article
	if err := query.Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list articles"})
		return
	}

	c.JSON(http.StatusOK, articles)
}

// Get returns a single non-deleted article.
func (h *ArticleHandler) Get(c *gin.Context) {
	boardID, ok := parseID(c, "boardId", "invalid board ID")
	if !ok {
		return
	}
	articleID, ok := parseID(c, "articleId", "invalid article ID")
	if !ok {
		return
	}

	article, ok := h.visibleArticle(c, boardID, articleID)
	if !ok {
		return
	}

	h.db.Preload("Author").First(article, article.ID)
	c.JSON(http.StatusOK, article)
}

// Edit updates title and/or content. Only the author may edit, and only when
// the edit cooldown has passed; the check and the save run under the
// author's lock.
func (h *ArticleHandler) Edit(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	boardID, ok := parseID(c, "boardId", "invalid board ID")
	if !ok {
		return
	}
	articleID, ok := parseID(c, "articleId", "invalid article ID")
	if !ok {
		return
	}

	var req EditArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	article, ok := h.visibleArticle(c, boardID, articleID)
	if !ok {
		return
	}

	if article.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author can edit this article"})
		return
	}

	lock := h.locks.Author(user.ID)
	lock.Lock()
	defer lock.Unlock()

	allowed, err := h.limiter.CanEdit(c.Request.Context(), article.ID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check edit cooldown"})
		return
	}
	if !allowed {
		middleware.RecordRateLimitRejection("edit")
		c.JSON(http.StatusForbidden, gin.H{"error": ratelimit.ErrEditLimited.Error()})
		return
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	now := time.Now()
	article.UpdatedAt = &now

	if err := h.db.Save(article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update article"})
		return
	}

	h.db.Preload("Author").First(article, article.ID)
	c.JSON(http.StatusOK, article)
}

// Delete flips the soft-delete flag. The row is never removed.
func (h *ArticleHandler) Delete(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	boardID, ok := parseID(c, "boardId", "invalid board ID")
	if !ok {
		return
	}
	articleID, ok := parseID(c, "articleId", "invalid article ID")
	if !ok {
		return
	}

	article, ok := h.visibleArticle(c, boardID, articleID)
	if !ok {
		return
	}

	if article.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author can delete this article"})
		return
	}

	if err := h.db.Model(article).Update("is_deleted", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// currentUser resolves the authenticated subject placed in the context by
// the auth middleware into a User row.
func (h *ArticleHandler) currentUser(c *gin.Context) (*model.User, bool) {
	username, exists := c.Get("username")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingCredential.Error()})
		return nil, false
	}

	var user model.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": auth.ErrUserNotFound.Error()})
		return nil, false
	}
	return &user, true
}

// visibleArticle loads an article, rejecting soft-deleted rows and rows that
// belong to a different board.
func (h *ArticleHandler) visibleArticle(c *gin.Context, boardID, articleID int64) (*model.Article, bool) {
	var article model.Article
	err := h.db.First(&article, articleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && article.IsDeleted) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return nil, false
	}

	if article.BoardID != boardID {
		c.JSON(http.StatusForbidden, gin.H{"error": "article does not belong to this board"})
		return nil, false
	}

	return &article, true
}

func parseID(c *gin.Context, param, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return 0, false
	}
	return id, true
}
