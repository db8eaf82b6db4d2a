package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Субъекты токенов: болельщик/игрок или сотрудник админки.
const (
	KindUser  = "user"
	KindAdmin = "admin"
)

const (
	jwtClaimSubjectID = "sub_id"
	jwtClaimKind      = "kind"
	jwtClaimName      = "name"
)

// Identity — распакованные claims текущего запроса.
type Identity struct {
	ID   int
	Kind string
	Name string
}

// NewClaims собирает map claims для подписи токена. exp/iat добавляет вызывающий.
func NewClaims(id int, kind, name string) jwt.MapClaims {
	return jwt.MapClaims{
		jwtClaimSubjectID: id,
		jwtClaimKind:      kind,
		jwtClaimName:      name,
	}
}

// Authenticate проверяет Bearer-токен и кладёт Identity в контекст.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			identity, err := identityFromClaims(claims)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromClaims(claims jwt.MapClaims) (*Identity, error) {
	idRaw, ok := claims[jwtClaimSubjectID]
	if !ok {
		return nil, fmt.Errorf("missing %q claim", jwtClaimSubjectID)
	}
	idFloat, ok := idRaw.(float64)
	if !ok || idFloat != float64(int(idFloat)) || int(idFloat) <= 0 {
		return nil, fmt.Errorf("invalid %q claim: %v", jwtClaimSubjectID, idRaw)
	}

	kind, _ := claims[jwtClaimKind].(string)
	if kind != KindUser && kind != KindAdmin {
		return nil, fmt.Errorf("invalid %q claim: %v", jwtClaimKind, claims[jwtClaimKind])
	}

	name, _ := claims[jwtClaimName].(string)
	return &Identity{ID: int(idFloat), Kind: kind, Name: name}, nil
}

// IdentityFromContext достаёт субъекта, положенного Authenticate.
func IdentityFromContext(ctx context.Context) (*Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, errors.New("identity not found in context")
	}
	return identity, nil
}

// RequireKind пропускает только токены заданного вида.
func RequireKind(kind string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := IdentityFromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if identity.Kind != kind {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission сверяет способность с текущим состоянием админа в БД,
// а не с моментом выдачи токена: отзыв роли действует сразу.
func RequirePermission(admins services.AdminService, allowed func(models.AdminPermissions) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := IdentityFromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if identity.Kind != KindAdmin {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			admin, err := admins.GetByID(r.Context(), identity.ID)
			if err != nil || !admin.Active || !allowed(admin.Permissions) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
