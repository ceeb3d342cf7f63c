package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"campusmarket/pkg/apperror"
)

// User is the identity slice of the login response the client keeps.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Credentials is the bundle returned by /api/auth/login.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Claims mirrors what the backend signs into the token. The client never has
// the signing key, so claims are decoded without verification and used only
// for expiry checks and the seller id fallback.
type Claims struct {
	SellerID string `json:"seller_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenStore persists the credential bundle to a file, the durable-storage
// analog of the browser's localStorage token.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

func (s *TokenStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if creds.Token == "" {
		return &apperror.ValidationError{Field: "token", Reason: "empty token"}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load returns the stored credentials. A missing file, an unreadable bundle
// or an expired token all come back as AuthError: there is no usable
// credential either way.
func (s *TokenStore) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, &apperror.AuthError{Reason: "no stored credential"}
		}
		return Credentials{}, fmt.Errorf("failed to read token file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, &apperror.AuthError{Reason: "stored credential is unreadable"}
	}
	if creds.Token == "" {
		return Credentials{}, &apperror.AuthError{Reason: "stored credential is empty"}
	}

	if claims, err := decodeClaims(creds.Token); err == nil {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return Credentials{}, &apperror.AuthError{Reason: "stored credential has expired"}
		}
	}

	return creds, nil
}

func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// Token returns the raw bearer token, or AuthError when absent.
func (s *TokenStore) Token() (string, error) {
	creds, err := s.Load()
	if err != nil {
		return "", err
	}
	return creds.Token, nil
}

// SellerID returns the signed-in seller's identity: the stored user id when
// present, else the seller_id claim inside the token.
func (s *TokenStore) SellerID() (string, error) {
	creds, err := s.Load()
	if err != nil {
		return "", err
	}
	if creds.User.ID != "" {
		return creds.User.ID, nil
	}
	if claims, err := decodeClaims(creds.Token); err == nil && claims.SellerID != "" {
		return claims.SellerID, nil
	}
	return "", &apperror.AuthError{Reason: "credential carries no seller id"}
}

func decodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
