package main

import (
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/auth"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/config"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/database"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/http/handlers"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/http/middleware"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/models"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/store"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/tcpline"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DBDSN == "" || cfg.JWTSecret == "" {
		log.Fatal("DB_DSN and JWT_SECRET must be set")
	}

	db, err := database.ConnectMySQL(cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect db:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.MessageRecipient{},
		&models.Contact{},
	); err != nil {
		log.Fatal("failed to migrate:", err)
	}

	st := store.New(db)
	tokens := auth.NewManager(cfg.JWTSecret)
	engine := chat.NewEngine(st, slog.Default())

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"success":   true,
			"timestamp": time.Now().UTC(),
		})
	})

	authH := &handlers.AuthHandler{DB: db, Tokens: tokens}
	r.POST("/api/auth/register", authH.Register)
	r.POST("/api/auth/login", authH.Login)

	wsH := &handlers.WSHandler{
		Engine:               engine,
		Verifier:             tokens,
		Store:                st,
		WSInsecureSkipVerify: cfg.WSInsecureSkipVerify,
	}
	r.GET("/ws", wsH.Handle)

	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware(tokens))

	chatH := &handlers.ChatHandler{Store: st, Engine: engine}
	authed.GET("/chat/messages", chatH.ListMessages)
	authed.POST("/chat/messages", chatH.SendMessage)
	authed.POST("/chat/ack", chatH.AckMessage)

	usersH := &handlers.UsersHandler{Store: st, Engine: engine}
	authed.GET("/users", usersH.List)
	authed.GET("/users/online", usersH.Online)

	contactsH := &handlers.ContactsHandler{DB: db}
	authed.POST("/contacts", contactsH.Add)
	authed.GET("/contacts", contactsH.List)
	authed.DELETE("/contacts/:id", contactsH.Delete)

	tcpAddr := fmt.Sprintf(":%d", cfg.TCPPort)
	lis, err := net.Listen("tcp", tcpAddr)
	if err != nil {
		log.Fatal("failed to listen on tcp port:", err)
	}
	tcpSrv := tcpline.NewServer(engine, tokens, st, slog.Default())
	go func() {
		log.Println("tcp server listening on", tcpAddr)
		if err := tcpSrv.Serve(lis); err != nil {
			log.Fatal("tcp server:", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("listening on", addr)
	log.Fatal(r.Run(addr))
}
