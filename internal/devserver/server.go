// Package devserver is an in-memory implementation of the task backend's
// REST API, used for local development and gateway tests.
package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"phototask/internal/service"
)

// Config configures a Server.
type Config struct {
	// JWTSecret signs bearer tokens.
	JWTSecret string

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration

	// UploadDir receives uploaded images.
	UploadDir string

	// PublicURL prefixes image URLs, e.g. http://localhost:8080.
	PublicURL string

	// AccessLog enables gin's request logger.
	AccessLog bool
}

type user struct {
	Email        string
	Name         string
	PasswordHash string
}

type fault struct {
	status int
	body   string
}

// Server holds users and their tasks in memory.
type Server struct {
	cfg    Config
	engine *gin.Engine
	now    func() time.Time

	mu     sync.RWMutex
	users  map[string]*user
	tasks  map[string][]service.Task // email -> tasks, oldest first
	faults map[string]fault          // method -> one-shot failure
}

// New creates a Server with routes registered.
func New(cfg Config) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "phototask-dev-secret"
	}

	s := &Server{
		cfg:    cfg,
		now:    time.Now,
		users:  make(map[string]*user),
		tasks:  make(map[string][]service.Task),
		faults: make(map[string]fault),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.AccessLog {
		r.Use(gin.Logger())
	}
	s.setupRoutes(r)
	s.engine = r
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// AddUser registers an account with a bcrypt-hashed password.
func (s *Server) AddUser(email, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(email)
	if _, exists := s.users[key]; exists {
		return fmt.Errorf("user already exists: %s", email)
	}
	s.users[key] = &user{Email: key, Name: name, PasswordHash: string(hash)}
	return nil
}

// Tasks returns a copy of the stored tasks of email, newest first.
func (s *Server) Tasks(email string) []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.tasks[normalizeEmail(email)])
}

// FailNext makes the next request with the given method answer status
// with body, without touching any state.
func (s *Server) FailNext(method string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[strings.ToUpper(method)] = fault{status: status, body: body}
}

// IssueToken signs a bearer token for email.
func (s *Server) IssueToken(email string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"email": normalizeEmail(email),
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

// validateToken returns the email a token was issued for.
func (s *Server) validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("invalid token claims")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, exists := s.users[email]; !exists {
		return "", errors.New("unknown user")
	}
	return email, nil
}

func (s *Server) takeFault(method string) (fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.faults[method]
	if ok {
		delete(s.faults, method)
	}
	return f, ok
}

func (s *Server) newID() string {
	return uuid.NewString()
}

func (s *Server) imageDir() (string, error) {
	dir := s.cfg.UploadDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "phototask-uploads")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newestFirst(tasks []service.Task) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		out = append(out, tasks[i])
	}
	return out
}
