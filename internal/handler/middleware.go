package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"fitledger/internal/service"
	"fitledger/pkg/auth"
	"fitledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxKeyClaims = "claims"
)

// JWTAuthMiddleware parses the bearer token and stores the claims for
// handlers. Identity extraction only; what a caller may do is decided
// by the services.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"code":    "UNAUTHENTICATED",
				"message": "Token de acesso ausente",
			})
			return
		}

		claims, err := auth.ParseValidate(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"code":    "UNAUTHENTICATED",
				"message": "Token de acesso inválido",
			})
			return
		}

		c.Set(ctxKeyClaims, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	value, _ := c.Get(ctxKeyClaims)
	claims, _ := value.(*auth.Claims)
	return claims
}

func adminContextFrom(c *gin.Context) service.AdminContext {
	claims := claimsFrom(c)
	return service.AdminContext{
		AdminID:        claims.Sub,
		FranchiseID:    claims.FranchiseID,
		FranqueadoraID: claims.FranqueadoraID,
	}
}

// RequireRole rejects callers whose role is not in the allow list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.BusinessError(c, http.StatusForbidden, service.CodeUnauthorized,
				"Você não tem permissão para acessar este recurso")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if query != "" {
			path = path + "?" + query
		}

		log.Printf("[HTTP] %d | %13v | %15s | %-7s %s",
			status,
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// RecoveryMiddleware keeps a panicking handler from taking the process
// down.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"code":    "INTERNAL_ERROR",
					"message": "Erro interno do servidor",
				})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware allows cross-origin calls from the web client.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
