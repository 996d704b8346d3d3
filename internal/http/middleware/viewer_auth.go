package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/clinic-console/internal/tenancy"
)

// ViewerClaims are the console session claims. Either a clinic or a doctor
// email must be present.
type ViewerClaims struct {
	Clinic     string `json:"clinic_name,omitempty"`
	Email      string `json:"email,omitempty"`
	DoctorID   string `json:"doctor_id,omitempty"`
	DoctorName string `json:"doctor_name,omitempty"`
	jwt.RegisteredClaims
}

// Viewer converts the claims into a tenancy viewer.
func (c ViewerClaims) Viewer() tenancy.Viewer {
	return tenancy.Viewer{
		Clinic:      strings.TrimSpace(c.Clinic),
		DoctorEmail: strings.TrimSpace(c.Email),
		DoctorID:    strings.TrimSpace(c.DoctorID),
		DoctorName:  strings.TrimSpace(c.DoctorName),
	}
}

// ViewerResolver fills in viewer details the token did not carry.
type ViewerResolver func(ctx context.Context, v tenancy.Viewer) tenancy.Viewer

// ViewerJWT verifies an HMAC-signed viewer token and stores the resulting
// viewer in the request context. The token is read from the Authorization
// header, or from the token query parameter for websocket upgrades.
// defaultClinic applies when the token names no clinic and resolve cannot
// supply one.
func ViewerJWT(secret, defaultClinic string, resolve ViewerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "viewer auth disabled", http.StatusUnauthorized)
				return
			}
			tokenString := bearerToken(r)
			if tokenString == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			claims := ViewerClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			v := claims.Viewer()
			if resolve != nil && incomplete(v) {
				v = resolve(r.Context(), v)
			}
			if v.Clinic == "" {
				v.Clinic = strings.TrimSpace(defaultClinic)
			}
			ctx := tenancy.WithViewer(r.Context(), v)
			if _, ok := tenancy.ViewerFromContext(ctx); !ok {
				http.Error(w, "token carries no clinic or doctor", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// incomplete reports whether a doctor viewer is missing details the
// directory can fill in.
func incomplete(v tenancy.Viewer) bool {
	return v.DoctorEmail != "" && (v.Clinic == "" || v.DoctorID == "" || v.DoctorName == "")
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if auth == "" {
		return strings.TrimSpace(r.URL.Query().Get("token"))
	}
	return ""
}
