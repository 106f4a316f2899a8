// Package preferences persists per-user UI preferences in redis. The only
// preference today is the dark-theme flag, read once at page load and
// written on every toggle.
package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const darkThemeKey = "preferences:dark_theme"

// Store is the key-value collaborator holding UI preferences.
type Store interface {
	Close()
	DarkTheme(ctx context.Context) (bool, error)
	SetDarkTheme(ctx context.Context, dark bool) error
}

type store struct {
	rdb *redis.Client
}

// NewStore connects to redis at addr.
func NewStore(addr string) Store {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &store{rdb: rdb}
}

func (s *store) Close() {
	s.rdb.Close()
}

// DarkTheme reads the theme flag; a missing key means the default light
// theme.
func (s *store) DarkTheme(ctx context.Context) (bool, error) {
	v, err := s.rdb.Get(ctx, darkThemeKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading theme preference: %w", err)
	}
	return v == "1", nil
}

func (s *store) SetDarkTheme(ctx context.Context, dark bool) error {
	v := "0"
	if dark {
		v = "1"
	}
	if err := s.rdb.Set(ctx, darkThemeKey, v, 0).Err(); err != nil {
		return fmt.Errorf("writing theme preference: %w", err)
	}
	return nil
}
