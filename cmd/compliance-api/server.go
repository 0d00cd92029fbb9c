package main

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.Health)
	r.POST("/process", s.ProcessText)
	r.POST("/documents", s.CreateDocument)
	r.GET("/documents/:id", s.GetDocument)
	r.GET("/documents/:id/entities", s.ListEntities)
	r.GET("/documents/:id/keywords", s.ListKeywords)
	r.GET("/documents/:id/text", s.GetText)
	r.GET("/documents/:id/insights", s.GetInsights)
	r.POST("/documents/:id/reprocess", s.Reprocess)
}

func (s server) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":       "ok",
		"capabilities": s.controller.capabilities,
	})
}

// ProcessText runs the pipeline over inline text without persisting
// anything. The body is JSON: {"text": "...", "doc_type": "..."}.
func (s server) ProcessText(c *gin.Context) {
	var req struct {
		Text    string `json:"text"`
		DocType string `json:"doc_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(400, errors.New("invalid request body - must be json with a text field")))
		return
	}

	c.JSON(200, s.controller.ProcessText(req.Text, req.DocType))
}

func (s server) CreateDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		handleError(c, NewHttpError(400, errors.New("multipart file field missing")))
		return
	}

	doc, err := s.controller.CreateDocument(c.Request.Context(), file, c.PostForm("doc_type"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(201, gin.H{
		"id":         doc.ID,
		"status":     "done",
		"doc_type":   doc.DocType,
		"language":   doc.Language,
		"created_at": doc.CreatedAt,
	})
}

func (s server) GetDocument(c *gin.Context) {
	doc, err := s.controller.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, doc)
}

func (s server) ListEntities(c *gin.Context) {
	entities, err := s.controller.ListEntities(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, entities)
}

func (s server) ListKeywords(c *gin.Context) {
	keywords, err := s.controller.ListKeywords(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, keywords)
}

func (s server) GetText(c *gin.Context) {
	blocks, err := s.controller.GetText(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, blocks)
}

func (s server) GetInsights(c *gin.Context) {
	insights, err := s.controller.GetInsights(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, insights)
}

func (s server) Reprocess(c *gin.Context) {
	result, err := s.controller.Reprocess(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, result)
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, 500, errors.New("abort called on nil error"))
	}
	switch e := err.(type) {
	case HttpError:
		abort(c, e.code, e.error)
	default:
		abort(c, 500, e)
	}
}

func abort(c *gin.Context, code int, err error) {
	switch {
	case code <= 500:
		c.JSON(code, map[string]interface{}{
			"status":  code,
			"message": err.Error(),
		})
		c.Abort()
	default:
		_ = c.AbortWithError(code, err)
	}
}
