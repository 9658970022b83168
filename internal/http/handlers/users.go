package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/http/middleware"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/store"
)

type UsersHandler struct {
	Store  *store.Store
	Engine *chat.Engine
}

// List returns everyone except the caller, with their stored presence
// fields, for the contact sidebar.
func (h *UsersHandler) List(c *gin.Context) {
	user := middleware.MustUser(c)

	users, err := h.Store.ListUsersExcept(c.Request.Context(), user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":       u.ID,
			"username": u.Username,
			"avatar":   u.Avatar,
			"online":   u.Online,
			"lastSeen": u.LastSeen,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": out})
}

// Online answers from the live registry, not the stored flags.
func (h *UsersHandler) Online(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "users": h.Engine.Registry.OnlineUsers()})
}
