package http

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html web/embed.js
var webAssets embed.FS

func serveAsset(name, contentType, cacheControl string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := webAssets.ReadFile("web/" + name)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "asset not found", err))
			return
		}
		if cacheControl != "" {
			c.Header("Cache-Control", cacheControl)
		}
		c.Data(http.StatusOK, contentType, data)
	}
}
