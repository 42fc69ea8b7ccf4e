package middleware

import (
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Request-ID"
	corsMaxAge       = "86400"
)

// CORS decorates responses for allow-listed origins and answers preflight
// requests with 200 and an empty body.
func CORS(allowedOrigins []string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek(fasthttp.HeaderOrigin))
			if _, ok := allowed[origin]; ok {
				h := &ctx.Response.Header
				h.Set(fasthttp.HeaderAccessControlAllowOrigin, origin)
				h.Set(fasthttp.HeaderAccessControlAllowCredentials, "true")
				h.Set(fasthttp.HeaderAccessControlAllowMethods, corsAllowMethods)
				h.Set(fasthttp.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				h.Set(fasthttp.HeaderAccessControlMaxAge, corsMaxAge)
				h.Add(fasthttp.HeaderVary, fasthttp.HeaderOrigin)
			}

			if ctx.IsOptions() {
				ctx.SetStatusCode(http.StatusOK)
				ctx.ResetBody()
				return
			}
			next(ctx)
		}
	}
}
