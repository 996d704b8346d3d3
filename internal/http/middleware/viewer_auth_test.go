package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/clinic-console/internal/tenancy"
)

func TestViewerJWTMissingSecret(t *testing.T) {
	mw := ViewerJWT("", "", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestViewerJWTMissingHeader(t *testing.T) {
	mw := ViewerJWT("secret", "", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestViewerJWTInvalidToken(t *testing.T) {
	mw := ViewerJWT("secret", "", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signedViewerToken(t, "wrong", ViewerClaims{Clinic: "Glow"}))
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestViewerJWTRejectsNonHMAC(t *testing.T) {
	mw := ViewerJWT("secret", "", nil)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, ViewerClaims{Clinic: "Glow"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestViewerJWTValidToken(t *testing.T) {
	mw := ViewerJWT("secret", "", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signedViewerToken(t, "secret", ViewerClaims{
		Clinic: " Glow Clinic ",
		Email:  "dr.a@glow.test",
	}))
	rec := httptest.NewRecorder()

	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		v, ok := tenancy.ViewerFromContext(r.Context())
		if !ok {
			t.Fatalf("expected viewer in context")
		}
		if v.Clinic != "Glow Clinic" || v.DoctorEmail != "dr.a@glow.test" {
			t.Fatalf("unexpected viewer %+v", v)
		}
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestViewerJWTQueryToken(t *testing.T) {
	mw := ViewerJWT("secret", "", nil)
	req := httptest.NewRequest(http.MethodGet, "/ws/timeline?token="+signedViewerToken(t, "secret", ViewerClaims{Email: "dr.a@glow.test"}), nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestViewerJWTResolverAndDefaultClinic(t *testing.T) {
	resolve := func(ctx context.Context, v tenancy.Viewer) tenancy.Viewer {
		v.DoctorID = "d-1"
		v.DoctorName = "Dr. A"
		return v
	}
	mw := ViewerJWT("secret", "Default Clinic", resolve)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signedViewerToken(t, "secret", ViewerClaims{Email: "dr.a@glow.test"}))
	rec := httptest.NewRecorder()

	var got tenancy.Viewer
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = tenancy.ViewerFromContext(r.Context())
	})).ServeHTTP(rec, req)

	want := tenancy.Viewer{Clinic: "Default Clinic", DoctorEmail: "dr.a@glow.test", DoctorID: "d-1", DoctorName: "Dr. A"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestViewerJWTEmptyIdentity(t *testing.T) {
	mw := ViewerJWT("secret", "", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signedViewerToken(t, "secret", ViewerClaims{}))
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func signedViewerToken(t *testing.T, secret string, claims ViewerClaims) string {
	t.Helper()
	claims.Subject = "viewer"
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(5 * time.Minute))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestViewerJWTSkipsResolverForCompleteClaims(t *testing.T) {
	calls := 0
	resolve := func(ctx context.Context, v tenancy.Viewer) tenancy.Viewer {
		calls++
		return v
	}
	mw := ViewerJWT("secret", "", resolve)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	complete := signedViewerToken(t, "secret", ViewerClaims{Clinic: "Glow", Email: "dr.a@glow.test", DoctorID: "d-1", DoctorName: "Dr. A"})
	clinicOnly := signedViewerToken(t, "secret", ViewerClaims{Clinic: "Glow"})
	for _, token := range []string{complete, clinicOnly, complete} {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	}
	if calls != 0 {
		t.Fatalf("expected resolver to be skipped, called %d times", calls)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signedViewerToken(t, "secret", ViewerClaims{Clinic: "Glow", Email: "dr.a@glow.test"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if calls != 1 {
		t.Fatalf("expected resolver for partial claims, called %d times", calls)
	}
}
