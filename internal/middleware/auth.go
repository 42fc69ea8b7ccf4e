package middleware

import (
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/careflow/api/transport"
	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/pkg/httpcontext"
)

// TokenVerifier validates an access token and returns its principal.
type TokenVerifier interface {
	Verify(raw string) (*domain.Principal, error)
}

// JWTAuth admits requests carrying "Authorization: Bearer <token>" with a
// valid token and stores the principal on the request.
func JWTAuth(verifier TokenVerifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString, ok := extractToken(ctx)
			if !ok {
				unauthorized(ctx, "missing or malformed authorization header")
				return
			}

			principal, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Debug("rejected access token", zap.Error(err))
				unauthorized(ctx, "invalid or expired token")
				return
			}

			httpcontext.SetPrincipal(ctx, *principal)
			next(ctx)
		}
	}
}

// extractToken requires exactly two space-separated parts, the first being
// "Bearer".
func extractToken(ctx *fasthttp.RequestCtx) (string, bool) {
	header := string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	ctx.SetBodyString(transport.NewError(message).String())
}
