package middleware

import (
	"context"
	"errors"
	"net/http"

	"rolloff/config"
	"rolloff/infras/jwt"
	"rolloff/infras/otel"
	"rolloff/permissions"
	"rolloff/shared/constant"
	"rolloff/shared/failure"
	"rolloff/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type trustedCallerKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	policy     *permissions.Policy
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, policy *permissions.Policy, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		policy:     policy,
		cfg:        cfg,
	}
}

// rule resolves the chi pattern of the request before routing has finished, so subrouter
// middlewares see the same rule as the final handler.
func (m *authRoleImpl) rule(r *http.Request) (string, permissions.Rule) {
	pattern := r.URL.Path

	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.Routes != nil {
		if found := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path); found != constant.Empty {
			pattern = found
		}
	}

	return pattern, m.policy.Lookup(r.Method, pattern)
}

func trusted(ctx context.Context) bool {
	ok, _ := ctx.Value(trustedCallerKey{}).(bool)

	return ok
}

// Auth attaches the caller identity from the bearer token. Public routes accept anonymous callers,
// and a bad token there is ignored rather than rejected.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "middleware.Auth")
		defer scope.End()

		if trusted(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		pattern, rule := m.rule(r)
		scope.SetAttributes(map[string]any{"http.route": pattern, "auth.public": rule.Public})

		claims, err := m.authenticate(r.Header.Get(constant.RequestHeaderAuthorization))
		switch {
		case err == nil:
			ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
			ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)
		case rule.Public:
			scope.AddEvent("anonymous caller")
		default:
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var tokenErrors = []struct {
	err     error
	message string
}{
	{jwt.ErrMissingHeader, "Missing authorization header"},
	{jwt.ErrInvalidHeader, "Invalid authorization header format"},
	{jwt.ErrExpiredToken, "Token has expired"},
	{jwt.ErrInvalidClaim, "Invalid token claims"},
	{jwt.ErrInvalidToken, "Invalid token"},
}

func (m *authRoleImpl) authenticate(header string) (*jwt.Claims, error) {
	claims, err := m.verify(header)
	if err == nil {
		return claims, nil
	}

	for _, known := range tokenErrors {
		if errors.Is(err, known.err) {
			return nil, failure.Unauthorized(known.message) //nolint:wrapcheck
		}
	}

	return nil, failure.Unauthorized("Token validation failed") //nolint:wrapcheck
}

func (m *authRoleImpl) verify(header string) (*jwt.Claims, error) {
	raw, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	claims, err := m.jwtService.ValidateToken(raw)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if claims.UserID == constant.Empty || claims.Email == constant.Empty {
		log.Warn().Str("token_id", claims.TokenID).Msg("token is missing the caller identity")

		return nil, jwt.ErrInvalidClaim
	}

	return claims, nil
}

// RBAC enforces the route's role list. It runs after Auth, so an anonymous caller on a public
// route never reaches a role check.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "middleware.RBAC")
		defer scope.End()

		_, rule := m.rule(r)
		if trusted(ctx) || rule.Public {
			next.ServeHTTP(w, r)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		if !rule.Allows(role) {
			scope.SetAttributes(map[string]any{"auth.role": role, "auth.allowed": rule.Roles})
			response.WithError(w, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// APIKey lets internal services through as superadmin. Requests without the header continue to
// token authentication, a wrong key is refused outright.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == constant.Empty {
			next.ServeHTTP(w, r)

			return
		}

		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "middleware.APIKey")
		defer scope.End()

		if m.cfg.App.APIKey == constant.Empty || key != m.cfg.App.APIKey {
			log.Warn().Str("remote", r.RemoteAddr).Msg("rejected request with an invalid api key")
			response.WithError(w, failure.ForbiddenError)

			return
		}

		ctx = context.WithValue(ctx, trustedCallerKey{}, true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, "internal")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleSuperAdmin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
