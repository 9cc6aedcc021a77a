package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-api/internal/core/domain"
)

type stubAuthService struct {
	verifyFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Register(context.Context, string, string) (*domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) Login(context.Context, string, string) (string, error) {
	panic("not used")
}

func (s *stubAuthService) Verify(ctx context.Context, token string) (*domain.User, error) {
	return s.verifyFn(ctx, token)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	want := &domain.User{PublicID: "pid-1", Username: "alice", IsAdmin: true}
	stub := &stubAuthService{
		verifyFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "tok123" {
				t.Fatalf("unexpected token: %q", token)
			}
			return want, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TokenHeader, "tok123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(stub)(func(c echo.Context) error {
		called = true
		user, ok := CurrentUser(c)
		if !ok {
			t.Fatalf("user not set on context")
		}
		if user.PublicID != "pid-1" {
			t.Fatalf("unexpected user: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		verifyFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "" {
				t.Fatalf("expected empty token, got %q", token)
			}
			return nil, domain.ErrMissingToken
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		verifyFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrInvalidToken
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TokenHeader, "garbage")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
