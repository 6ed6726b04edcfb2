package devserver

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"phototask/internal/service"
)

const emailKey = "email"

func (s *Server) setupRoutes(r *gin.Engine) {
	r.Use(s.faultMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if dir, err := s.imageDir(); err == nil {
		r.Static("/uploads", dir)
	}

	r.POST("/auth/login", s.login)

	protected := r.Group("/")
	protected.Use(s.authMiddleware())
	{
		protected.GET("/todos", s.listTodos)
		protected.POST("/todos", s.createTodo)
		protected.PATCH("/todos/:id", s.updateTodo)
		protected.DELETE("/todos/:id", s.deleteTodo)
		protected.POST("/images", s.uploadImage)
	}
}

// faultMiddleware answers with an injected failure when one is pending.
func (s *Server) faultMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if f, ok := s.takeFault(c.Request.Method); ok {
			c.Data(f.status, "application/json", []byte(f.body))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization header format"})
			c.Abort()
			return
		}

		email, err := s.validateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(emailKey, email)
		c.Next()
	}
}

func (s *Server) login(c *gin.Context) {
	var req service.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	s.mu.RLock()
	u, ok := s.users[normalizeEmail(req.Email)]
	s.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	token, err := s.IssueToken(u.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": service.AuthResult{
		Token: token,
		User:  service.User{Email: u.Email, Name: u.Name},
	}})
}

func (s *Server) listTodos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.Tasks(c.GetString(emailKey))})
}

func (s *Server) createTodo(c *gin.Context) {
	email := c.GetString(emailKey)

	var req service.NewTask
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
		return
	}
	if req.PhotoURI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "photoUri is required"})
		return
	}

	task := service.Task{
		ID:        s.newID(),
		Title:     req.Title,
		Completed: req.Completed,
		PhotoURI:  req.PhotoURI,
		Location:  req.Location,
		UserEmail: email,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.tasks[email] = append(s.tasks[email], task)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"data": task})
}

func (s *Server) updateTodo(c *gin.Context) {
	email := c.GetString(emailKey)
	id := c.Param("id")

	var patch service.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title must not be empty"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks[email] {
		t := &s.tasks[email][i]
		if t.ID != id {
			continue
		}
		if patch.Title != nil {
			t.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		c.JSON(http.StatusOK, gin.H{"data": *t})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
}

func (s *Server) deleteTodo(c *gin.Context) {
	email := c.GetString(emailKey)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := s.tasks[email]
	for i, t := range tasks {
		if t.ID == id {
			s.tasks[email] = append(tasks[:i:i], tasks[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
}

func (s *Server) uploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		file, err = c.FormFile("image")
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "multipart field file or image is required"})
		return
	}

	dir, err := s.imageDir()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "upload storage unavailable"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := s.newID() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"url": s.publicURL(c) + "/uploads/" + name}})
}

func (s *Server) publicURL(c *gin.Context) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
