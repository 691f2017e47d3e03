package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderAPIKey   = "X-API-Key"
	LocalsIdentity = "api_identity"
)

// KeyService verifies request API keys against salted SHA-256 hashes. Only
// hashes are kept in memory; raw keys are never stored. The instance is built
// in main and injected into the route setup (no package-level state).
type KeyService struct {
	salt string

	mu    sync.RWMutex
	keys  map[string]struct{}
	admin map[string]struct{}
}

func NewKeyService(salt string) *KeyService {
	return &KeyService{
		salt:  salt,
		keys:  make(map[string]struct{}),
		admin: make(map[string]struct{}),
	}
}

// Hash returns the salted sha256 hex digest used for storage and lookup.
func (s *KeyService) Hash(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey + s.salt))
	return hex.EncodeToString(sum[:])
}

// Register hashes and stores a raw key; returns the hash.
func (s *KeyService) Register(rawKey string) string {
	hashed := s.Hash(rawKey)
	s.mu.Lock()
	s.keys[hashed] = struct{}{}
	s.mu.Unlock()
	return hashed
}

// RegisterAdmin registers a key that may also hit admin routes.
func (s *KeyService) RegisterAdmin(rawKey string) string {
	hashed := s.Register(rawKey)
	s.mu.Lock()
	s.admin[hashed] = struct{}{}
	s.mu.Unlock()
	return hashed
}

// Verify returns the hashed identity for a valid raw key, or "".
func (s *KeyService) Verify(rawKey string) string {
	if rawKey == "" {
		return ""
	}
	hashed := s.Hash(rawKey)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for candidate := range s.keys {
		if hmac.Equal([]byte(hashed), []byte(candidate)) {
			return hashed
		}
	}
	return ""
}

func (s *KeyService) IsAdmin(hashedKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admin[hashedKey]
	return ok
}

// RequireAPIKey validates the X-API-Key header and stores the hashed identity
// in locals for downstream rate limiting.
func RequireAPIKey(ks *KeyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := ks.Verify(c.Get(HeaderAPIKey))
		if identity == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or missing API key",
			})
		}
		c.Locals(LocalsIdentity, identity)
		return c.Next()
	}
}

// RequireAdminKey additionally checks the verified key has admin scope.
func RequireAdminKey(ks *KeyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, _ := c.Locals(LocalsIdentity).(string)
		if identity == "" {
			identity = ks.Verify(c.Get(HeaderAPIKey))
		}
		if identity == "" || !ks.IsAdmin(identity) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin API key required",
			})
		}
		c.Locals(LocalsIdentity, identity)
		return c.Next()
	}
}
