package handler

import (
	"net/http"

	"github.com/boardhub/api/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BoardHandler struct {
	db *gorm.DB
}

func NewBoardHandler(db *gorm.DB) *BoardHandler {
	return &BoardHandler{db: db}
}

func (h *BoardHandler) List(c *gin.Context) {
	var boards []model.Board
	if err := h.db.Order("id").Find(&boards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list boards"})
		return
	}
	c.JSON(http.StatusOK, boards)
}

func (h *BoardHandler) Get(c *gin.Context) {
	boardID := c.Param("boardId")

	var board model.Board
	if err := h.db.First(&board, "id = ?", boardID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return
	}
	c.JSON(http.StatusOK, board)
}
