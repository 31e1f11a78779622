package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai_article_backend/generator"
)

const (
	livenessText      = "AI article backend is running."
	genericErrMessage = "Error generating article."
	requestIDHeader   = "X-Request-ID"
)

// Server exposes the article pipeline over HTTP.
type Server struct {
	genAgent *generator.Agent
	log      *zap.Logger
}

func New(genAgent *generator.Agent, log *zap.Logger) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{genAgent: genAgent, log: log}, nil
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.logMiddleware(), cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, livenessText)
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/generate-article", s.handleGenerateArticle)
	return r
}

// --- Handlers ---

type generateReq struct {
	Topic  string `json:"topic"`
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

type generateResp struct {
	Article     string `json:"article"`
	BaseArticle string `json:"baseArticle,omitempty"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleGenerateArticle(c *gin.Context) {
	var req generateReq
	// An empty body reads as {} so the topic check reports it.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResp{Error: "Invalid JSON body."})
		return
	}

	res, err := s.genAgent.Generate(c.Request.Context(), generator.ArticleRequest{
		Topic:  req.Topic,
		Tone:   generator.Tone(req.Tone),
		Length: generator.Length(req.Length),
	})
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("article generation failed",
				zap.String("request_id", c.GetString(requestIDHeader)),
				zap.Error(err))
		}
		c.JSON(status, errorResp{Error: msg})
		return
	}

	resp := generateResp{Article: res.Article}
	if s.genAgent.Refines() {
		resp.BaseArticle = res.BaseArticle
	}
	c.JSON(http.StatusOK, resp)
}

// errorStatus maps pipeline errors onto the status and message the client sees.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, generator.ErrTopicRequired):
		return http.StatusBadRequest, "Topic is required."
	case errors.Is(err, generator.ErrEmptyDraft):
		return http.StatusInternalServerError, "The model returned an empty response for the base article."
	case errors.Is(err, generator.ErrEmptyRefined):
		return http.StatusInternalServerError, "The model returned an empty response for the refined article."
	}
	var se *generator.StageError
	if errors.As(err, &se) {
		err = se.Err
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = genericErrMessage
	}
	return http.StatusInternalServerError, msg
}

// --- Helpers ---

func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)

		c.Next()

		path := c.Request.URL.Path
		if path == "" {
			path = "/"
		}
		s.log.Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
