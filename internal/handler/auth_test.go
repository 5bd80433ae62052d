package handler

import (
    "context"
    "database/sql"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/bookfair-stall-reservation/internal/config"
    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/utils"
)

// tokenStoreStub records revocations; reads behave as if no token exists.
type tokenStoreStub struct {
    revokedAll []uint64
    revokedOne []string
}

func (s *tokenStoreStub) StoreRefresh(context.Context, uint64, string, time.Time) error { return nil }

func (s *tokenStoreStub) ValidateRefresh(context.Context, string) (uint64, error) {
    return 0, sql.ErrNoRows
}

func (s *tokenStoreStub) RevokeByHash(_ context.Context, hash string) error {
    s.revokedOne = append(s.revokedOne, hash)
    return nil
}

func (s *tokenStoreStub) RevokeAllForUser(_ context.Context, userID uint64) error {
    s.revokedAll = append(s.revokedAll, userID)
    return nil
}

func logoutCtx(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", strings.NewReader("{}"))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    if authorization != "" {
        req.Header.Set(echo.HeaderAuthorization, authorization)
    }
    rec := httptest.NewRecorder()
    return echo.New().NewContext(req, rec), rec
}

func TestBearerUserID(t *testing.T) {
    access, err := utils.NewAccessToken("secret", 42, model.RoleVendor, 5)
    if err != nil {
        t.Fatal(err)
    }

    c, _ := logoutCtx(t, "Bearer "+access.Token)
    uid, ok := bearerUserID(c, "secret")
    if !ok || uid != 42 {
        t.Fatalf("bearerUserID = %d, %v; want 42, true", uid, ok)
    }

    c, _ = logoutCtx(t, "Bearer "+access.Token)
    if _, ok := bearerUserID(c, "other"); ok {
        t.Error("token accepted against the wrong secret")
    }

    c, _ = logoutCtx(t, "Bearer not.a.jwt")
    if _, ok := bearerUserID(c, "secret"); ok {
        t.Error("garbage token accepted")
    }

    c, _ = logoutCtx(t, "")
    if _, ok := bearerUserID(c, "secret"); ok {
        t.Error("missing header accepted")
    }
}

// Logout with only an access token must revoke every session of the
// token's owner.  The route sits outside the JWT middleware, so the
// handler has to parse the Authorization header itself.
func TestLogoutAccessTokenOnly(t *testing.T) {
    store := &tokenStoreStub{}
    h := &AuthHandler{Cfg: config.Config{JWTSecret: "secret"}, Tokens: store}

    access, err := utils.NewAccessToken("secret", 42, model.RoleVendor, 5)
    if err != nil {
        t.Fatal(err)
    }
    c, rec := logoutCtx(t, "Bearer "+access.Token)
    if err := h.Logout(c); err != nil {
        t.Fatal(err)
    }
    if rec.Code != http.StatusNoContent {
        t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusNoContent, rec.Body.String())
    }
    if len(store.revokedAll) != 1 || store.revokedAll[0] != 42 {
        t.Errorf("revoked sessions for %v, want [42]", store.revokedAll)
    }
}

func TestLogoutWithoutCredentials(t *testing.T) {
    store := &tokenStoreStub{}
    h := &AuthHandler{Cfg: config.Config{JWTSecret: "secret"}, Tokens: store}

    c, rec := logoutCtx(t, "")
    if err := h.Logout(c); err != nil {
        t.Fatal(err)
    }
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
    }
    if len(store.revokedAll) != 0 || len(store.revokedOne) != 0 {
        t.Error("logout without credentials revoked tokens")
    }
}
