package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/model"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
)

type UserAPI interface {
	GetUserByLoginID(ctx context.Context, loginID string) ([]model.User, error)
}

// IdentityService asks the API server who a bearer token belongs to. The
// answer is cached per token, so only the first request of a session pays
// for the round trip.
type IdentityService struct {
	api   UserAPI
	cache *expirable.LRU[string, string]
	group singleflight.Group
}

func NewIdentityService(api UserAPI, size int, ttl time.Duration) *IdentityService {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &IdentityService{api: api, cache: expirable.NewLRU[string, string](size, nil, ttl)}
}

// Resolve returns the login id of the token owner. A token the API server
// refuses yields ErrUnauthorized.
func (s *IdentityService) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", appErr.ErrUnauthorized
	}
	key := tokenKey(token)
	if login, ok := s.cache.Get(key); ok {
		return login, nil
	}
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		users, err := s.api.GetUserByLoginID(galasaapi.WithBearer(ctx, token), "me")
		if err != nil {
			var upstream *galasaapi.Error
			if errors.As(err, &upstream) && (upstream.StatusCode == http.StatusUnauthorized || upstream.StatusCode == http.StatusForbidden) {
				return "", fmt.Errorf("resolve identity: %w", appErr.ErrUnauthorized)
			}
			return "", err
		}
		if len(users) == 0 || strings.TrimSpace(users[0].LoginID) == "" {
			return "", fmt.Errorf("resolve identity: %w", appErr.ErrUnauthorized)
		}
		login := strings.TrimSpace(users[0].LoginID)
		s.cache.Add(key, login)
		logutil.GetLogger(ctx).Debug("identity resolved", zap.String("login_id", login))
		return login, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
