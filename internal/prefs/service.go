// Package prefs stores per-session display preferences. Currently only the
// theme, kept as its own key so a corrupt value never touches cart or
// favorites state.
package prefs

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/dbackf/storefront/pkg/errors"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a caller-provided theme value.
func ParseTheme(raw string) (Theme, error) {
	switch Theme(raw) {
	case ThemeLight, ThemeDark:
		return Theme(raw), nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "theme must be light or dark")
	}
}

type sessionKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ThemeKey(sessionID string) string
}

type Service interface {
	Theme(ctx context.Context, sessionID string) (Theme, error)
	SetTheme(ctx context.Context, sessionID string, theme Theme) error
}

type service struct {
	kv  sessionKV
	ttl time.Duration
}

func NewService(kv sessionKV, ttl time.Duration) (Service, error) {
	if kv == nil {
		return nil, errors.New("prefs: session store is required")
	}
	return &service{kv: kv, ttl: ttl}, nil
}

// Theme reads the stored preference. Missing or unrecognized values fall back
// to light.
func (s *service) Theme(ctx context.Context, sessionID string) (Theme, error) {
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.kv.Get(ctx, s.kv.ThemeKey(sessionID))
	if err != nil {
		// Missing key and read failures both fall back to the default.
		return ThemeLight, nil
	}
	theme, err := ParseTheme(raw)
	if err != nil {
		return ThemeLight, nil
	}
	return theme, nil
}

func (s *service) SetTheme(ctx context.Context, sessionID string, theme Theme) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.ThemeKey(sessionID), string(theme), s.ttl)
}
