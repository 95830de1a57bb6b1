package proxy

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/eaglebank/ledger/shared/middleware"
	"github.com/gin-gonic/gin"
)

// Routes mounts the public ledger API on router, forwarding each tree to its
// owning service unchanged.
func Routes(router gin.IRouter, accountServiceURL, transactionServiceURL string) {
	client := &http.Client{Timeout: 15 * time.Second}
	accounts := To(accountServiceURL, client)
	transactions := To(transactionServiceURL, client)

	router.Any("/accounts", accounts)
	router.Any("/accounts/*path", accounts)
	router.Any("/transactions", transactions)
	router.Any("/transactions/*path", transactions)
}

// To returns a handler that replays the incoming request against serviceURL
// and copies the response back verbatim.
func To(serviceURL string, client *http.Client) gin.HandlerFunc {
	serviceURL = strings.TrimSuffix(serviceURL, "/")
	return func(c *gin.Context) {
		// Build target URL
		targetURL := serviceURL + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		// Read request body
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, bytes.NewReader(bodyBytes))
		if err != nil {
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create request")
			return
		}

		// Copy headers
		for key, values := range c.Request.Header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
		req.Header.Set(middleware.RequestIDHeader, middleware.RequestID(c))

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("[%s] Error proxying request to %s: %v", middleware.RequestID(c), serviceURL, err)
			middleware.RespondWithError(c, http.StatusBadGateway, "Service unavailable")
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadGateway, "Failed to read response")
			return
		}

		// Copy response headers
		for key, values := range resp.Header {
			c.Writer.Header()[key] = values
		}

		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}
