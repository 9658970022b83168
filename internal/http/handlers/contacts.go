package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/http/middleware"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/models"
)

type ContactsHandler struct {
	DB *gorm.DB
}

type addContactReq struct {
	Username string `json:"username" binding:"required"`
	Nickname string `json:"nickname"`
}

func (h *ContactsHandler) Add(c *gin.Context) {
	user := middleware.MustUser(c)

	var req addContactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	var other models.User
	if err := h.DB.Where("username = ?", req.Username).First(&other).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if other.ID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot add yourself"})
		return
	}

	contact := models.Contact{
		UserID:        user.ID,
		ContactUserID: other.ID,
		Nickname:      req.Nickname,
	}
	if err := h.DB.Create(&contact).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "contact already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "contact": contact})
}

func (h *ContactsHandler) List(c *gin.Context) {
	user := middleware.MustUser(c)

	var contacts []models.Contact
	if err := h.DB.Where("user_id = ?", user.ID).Order("created_at asc").Find(&contacts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "contacts": contacts})
}

func (h *ContactsHandler) Delete(c *gin.Context) {
	user := middleware.MustUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", uint(id), user.ID).Delete(&models.Contact{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
