package handlers

import (
	"errors"
	"log"
	"net/http"

	"url-shortener-api/internal/shortener"

	"github.com/gin-gonic/gin"
)

// User-facing messages for service failures.
const (
	msgCapacityExhausted = "internal error, try again later"
	msgNotFound          = "no matching long URL found, check input"
)

// ShortenRequest represents the request payload for shortening a URL
type ShortenRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ShortenResponse represents the shorten response
type ShortenResponse struct {
	Token       string `json:"token"`
	ShortURL    string `json:"shortUrl"`
	OriginalURL string `json:"originalUrl"`
}

// RecoverResponse represents the recover response
type RecoverResponse struct {
	Token       string `json:"token"`
	OriginalURL string `json:"originalUrl"`
}

// LinkHandler serves the shortener operations over HTTP.
type LinkHandler struct {
	service *shortener.Service
	baseURL string
}

// NewLinkHandler returns a handler backed by service. baseURL is prefixed to
// tokens to build the shortUrl field.
func NewLinkHandler(service *shortener.Service, baseURL string) *LinkHandler {
	return &LinkHandler{service: service, baseURL: baseURL}
}

/*
*
Shorten handles POST /api/shorten
Stores the long URL and returns its token
*/
func (h *LinkHandler) Shorten(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. An absolute url is required.",
		})
		return
	}

	token, err := h.service.Shorten(req.URL)
	if err != nil {
		if !errors.Is(err, shortener.ErrCapacityExhausted) {
			log.Println("shorten failed:", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": msgCapacityExhausted,
		})
		return
	}

	c.JSON(http.StatusOK, ShortenResponse{
		Token:       token,
		ShortURL:    h.baseURL + token,
		OriginalURL: req.URL,
	})
}

/*
*
Recover handles GET /api/recover/:token
Returns the long URL stored under the token
*/
func (h *LinkHandler) Recover(c *gin.Context) {
	token := c.Param("token")
	url, err := h.service.Recover(token)
	if err != nil {
		h.abortLookup(c, err)
		return
	}

	c.JSON(http.StatusOK, RecoverResponse{
		Token:       token,
		OriginalURL: url,
	})
}

// Redirect handles GET /s/:token by redirecting to the long URL.
func (h *LinkHandler) Redirect(c *gin.Context) {
	url, err := h.service.Recover(c.Param("token"))
	if err != nil {
		h.abortLookup(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// CacheSize handles GET /api/cache/size
func (h *LinkHandler) CacheSize(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"size": h.service.CacheSize(),
	})
}

func (h *LinkHandler) abortLookup(c *gin.Context, err error) {
	if errors.Is(err, shortener.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": msgNotFound,
		})
		return
	}
	log.Println("recover failed:", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": msgCapacityExhausted,
	})
}
