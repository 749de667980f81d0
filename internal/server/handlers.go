// file: internal/server/handlers.go
// version: 1.0.0
// guid: 8a0c2e4f-6b8d-4e0f-9a3b-7c9d1e3f5a7b

package server

import (
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/librorank/librorank/internal/database"
	"github.com/librorank/librorank/internal/library"
	"github.com/librorank/librorank/internal/resolve"
)

type addBookRequest struct {
	Title      string `json:"title" binding:"required"`
	Author     string `json:"author"`
	TotalPages int    `json:"total_pages"`
}

type updateProgressRequest struct {
	Title      string `json:"title" binding:"required"`
	PagesRead  int    `json:"pages_read"`
	TotalPages int    `json:"total_pages"`
}

type finishBookRequest struct {
	Title  string  `json:"title" binding:"required"`
	Rating float64 `json:"rating"`
	Date   string  `json:"date"`
}

type dnfBookRequest struct {
	Title string `json:"title" binding:"required"`
	Date  string `json:"date"`
}

type resolveRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author"`
}

// parseDateOrZero accepts YYYY-MM-DD; empty or unparseable input yields the
// zero time, which the library treats as "today".
func parseDateOrZero(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return d
}

func (s *Server) listBooks(c *gin.Context) {
	c.JSON(http.StatusOK, s.lib.Books())
}

func (s *Server) addBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := s.lib.Add(req.Title, req.Author, req.TotalPages)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := s.lib.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (s *Server) updateProgress(c *gin.Context) {
	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := s.lib.UpdateProgress(req.Title, req.PagesRead, req.TotalPages)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, library.ErrBookNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if err := s.lib.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": book.ProgressPct, "read_status": book.ReadStatus})
}

func (s *Server) finishBook(c *gin.Context) {
	var req finishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := s.lib.Finish(req.Title, req.Rating, parseDateOrZero(req.Date))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, library.ErrBookNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if err := s.lib.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, book)
}

func (s *Server) dnfBook(c *gin.Context) {
	var req dnfBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := s.lib.DNF(req.Title, parseDateOrZero(req.Date))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := s.lib.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, book)
}

func (s *Server) recommend(c *gin.Context) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ranked, pick, ok := s.lib.Recommend(rng)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing on the to-read shelf"})
		return
	}
	top := ranked
	if len(top) > 5 {
		top = top[:5]
	}
	c.JSON(http.StatusOK, gin.H{
		"pick": pick,
		"top":  top,
	})
}

func (s *Server) resolveBook(c *gin.Context) {
	if s.resolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog resolution not configured"})
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := s.resolver.Resolve(c.Request.Context(), req.Title, req.Author)
	if err != nil {
		if errors.Is(err, resolve.ErrNoMatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[WARN] resolve request for %q failed: %v", req.Title, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) listRecords(c *gin.Context) {
	if database.GlobalStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store not initialized"})
		return
	}
	records, err := database.GlobalStore.ListRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) getRecord(c *gin.Context) {
	if database.GlobalStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store not initialized"})
		return
	}
	rec, err := database.GlobalStore.GetRecord(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}
