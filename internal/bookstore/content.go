package bookstore

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
)

// CategorySource lists the category names content pages may reference.
type CategorySource interface {
	CategoryNames(ctx context.Context) ([]string, error)
}

// pages serves SEO content pages and SEO category pages. Both reference a
// storefront category by name.
type pages struct {
	svc        *service.Service
	categories CategorySource
	label      string
	deleted    string
}

func (p *pages) register(rg *gin.RouterGroup, extraCreate ...string) {
	rg.GET("", p.list)
	rg.GET("/:id", p.get)
	rg.POST("", p.create)
	for _, path := range extraCreate {
		rg.POST(path, p.create)
	}
	rg.PUT("/:id", p.update)
	rg.DELETE("/:id", p.remove)
}

func (p *pages) validCategories(ctx context.Context) []string {
	names, err := p.categories.CategoryNames(ctx)
	if err != nil {
		logger.Warnf("fetching categories failed, using defaults: %v", err)
		return FallbackCategories
	}
	if len(names) == 0 {
		return FallbackCategories
	}
	return names
}

func (p *pages) checkCategory(ctx context.Context, d resource.Document) error {
	v, ok := d["category"]
	if !ok {
		return nil
	}
	name, _ := v.(string)
	for _, valid := range p.validCategories(ctx) {
		if valid == name {
			return nil
		}
	}
	return resource.Invalid("category", "%s is not a valid category", name)
}

// splitTags accepts tags as a comma separated string or as an array.
func splitTags(d resource.Document) {
	s, ok := d["tags"].(string)
	if !ok {
		return
	}
	tags := []interface{}{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	d["tags"] = tags
}

func (p *pages) list(c *gin.Context) {
	list, err := p.svc.List(c.Request.Context(), nil, resource.FindOptions{})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (p *pages) get(c *gin.Context) {
	d, err := p.svc.Get(c.Request.Context(), c.Param("id"), resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, p.label+" not found")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (p *pages) create(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	splitTags(body)
	ctx := c.Request.Context()
	if err := p.checkCategory(ctx, body); err != nil {
		handler.WriteError(c, err)
		return
	}
	created, err := p.svc.Create(ctx, body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// update only applies non-empty values, so blank form fields keep what is stored.
func (p *pages) update(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	splitTags(body)
	patch := resource.Truthy(body)
	ctx := c.Request.Context()
	if err := p.checkCategory(ctx, patch); err != nil {
		handler.WriteError(c, err)
		return
	}
	d, err := p.svc.Update(ctx, c.Param("id"), patch)
	if err != nil {
		handler.WriteNotFound(c, err, p.label+" not found")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (p *pages) remove(c *gin.Context) {
	if _, err := p.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handler.WriteNotFound(c, err, p.label+" not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": p.deleted})
}
