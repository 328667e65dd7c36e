package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminTokenExpiry = 12 * time.Hour
	adminSubject     = "admin"
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAdminDisabled   = errors.New("admin login disabled")
	ErrInvalidPassword = errors.New("invalid password")
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")
)

// AdminAuth gates admin commands. With a password hash set, commands need a token
// from Login. Without one, commands are accepted only when allowOpen is set.
type AdminAuth struct {
	hash      []byte
	jwtSecret []byte
	allowOpen bool

	// Rate limiting for login attempts (IP -> attempts)
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAdminAuth creates the admin gate. An empty secret generates a random one per process.
func NewAdminAuth(passwordHash, secret string, allowOpen bool) *AdminAuth {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("failed to generate JWT secret: " + err.Error())
		}
	}
	return &AdminAuth{
		hash:      []byte(passwordHash),
		jwtSecret: key,
		allowOpen: allowOpen,
		rateMap:   make(map[string]*rateEntry),
	}
}

// HashAdminPassword produces a value suitable for ADMIN_PASSWORD_HASH
func HashAdminPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Login verifies the admin password and returns a signed token
func (a *AdminAuth) Login(password, ip string) (string, error) {
	if len(a.hash) == 0 {
		return "", ErrAdminDisabled
	}
	if !a.checkRate(ip) {
		return "", ErrTooManyAttempts
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return a.generateToken()
}

// Authorize checks whether a command carrying token may run
func (a *AdminAuth) Authorize(token string) error {
	if len(a.hash) == 0 {
		if a.allowOpen {
			return nil
		}
		return ErrUnauthorized
	}
	if token == "" {
		return ErrUnauthorized
	}
	if err := a.validateToken(token); err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return nil
}

func (a *AdminAuth) validateToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid token")
	}
	if sub, _ := claims["sub"].(string); sub != adminSubject {
		return fmt.Errorf("invalid token claims")
	}
	return nil
}

func (a *AdminAuth) generateToken() (string, error) {
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"exp": time.Now().Add(adminTokenExpiry).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *AdminAuth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxLoginAttempts
}
