package resumes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/exports"
	"github.com/ByLCY/cvpress/generator"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/resume"
	"github.com/ByLCY/cvpress/server/middleware"
	"github.com/ByLCY/cvpress/server/respond"
	"github.com/ByLCY/cvpress/telemetry"
)

type Handler struct {
	Svc *Service
	Gen *generator.Generator
	// Exports is optional; nil disables archiving.
	Exports exports.Store
}

func NewHandler(svc *Service, gen *generator.Generator, store exports.Store) *Handler {
	return &Handler{Svc: svc, Gen: gen, Exports: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cvs", h.create)
	rg.GET("/cvs", h.list)
	rg.GET("/cvs/:id", h.get)
	rg.PUT("/cvs/:id", h.update)
	rg.DELETE("/cvs/:id", h.delete)
	rg.GET("/cvs/:id/pdf", h.pdf)
	rg.POST("/pdf", h.renderAdHoc)
}

func (h *Handler) create(c *gin.Context) {
	rec, ok := decodeBody(c)
	if !ok {
		return
	}
	doc, err := h.Svc.Create(c.Request.Context(), rec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, doc.ID)
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) list(c *gin.Context) {
	limit, err1 := queryInt(c, "limit")
	offset, err2 := queryInt(c, "offset")
	if err := errors.Join(err1, err2); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "limit and offset must be integers", nil)
		return
	}
	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, doc)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	rec, ok := decodeBody(c)
	if !ok {
		return
	}
	doc, err := h.Svc.Update(c.Request.Context(), id, rec)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, doc)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) pdf(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	h.render(c, doc.ID, doc.Record)
}

func (h *Handler) renderAdHoc(c *gin.Context) {
	rec, ok := decodeBody(c)
	if !ok {
		return
	}
	h.render(c, "", rec)
}

func (h *Handler) render(c *gin.Context, owner string, rec resume.Record) {
	if h.Gen == nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "renderer unavailable", nil)
		return
	}
	out, err := h.Gen.Generate(rec)
	if err != nil {
		writeError(c, err)
		return
	}
	if out.Layout.Overflow {
		telemetry.Warn("layout.overflow", map[string]any{
			"resume_id": owner,
			"left":      out.Layout.Cursor.Left,
			"right":     out.Layout.Cursor.Right,
			"page":      out.Layout.Page.Height,
		})
	}
	c.Set(middleware.RenderKey, middleware.RenderInfo{
		PDFBytes: len(out.PDF),
		Overflow: out.Layout.Overflow,
		Archive:  h.archive(c.Request.Context(), owner, out.PDF),
	})
	respond.Attachment(c, "application/pdf", generator.FileName, out.PDF)
}

// archive 返回归档位置；失败只记录日志，不影响下载。
func (h *Handler) archive(ctx context.Context, owner string, data []byte) string {
	if h.Exports == nil {
		return ""
	}
	where, err := h.Exports.Save(ctx, exports.Key(owner, time.Now()), data)
	if err != nil {
		telemetry.Error("export.failed", map[string]any{"resume_id": owner, "err": err})
		return ""
	}
	return where
}

func decodeBody(c *gin.Context) (resume.Record, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "failed to read body", nil)
		return resume.Record{}, false
	}
	rec, err := resume.Decode(raw)
	if err != nil {
		writeError(c, err)
		return resume.Record{}, false
	}
	return rec, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, resume.ErrMalformedInput):
		respond.Error(c, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	case errors.Is(err, assets.ErrResourceMissing):
		respond.Error(c, http.StatusInternalServerError, "resource_missing", err.Error(), nil)
	case errors.Is(err, layout.ErrMeasurement):
		respond.Error(c, http.StatusInternalServerError, "measurement_failed", err.Error(), nil)
	default:
		telemetry.Error("resumes.internal", map[string]any{"err": err})
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
	}
}
