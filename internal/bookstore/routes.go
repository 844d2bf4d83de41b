package bookstore

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
)

// Register mounts the bookstore under rg (normally /api/bookstore).
func Register(rg *gin.RouterGroup, backend repository.Backend) {
	home := &Homepage{
		categories: service.New(homeCategorySchema, backend),
		books:      service.New(bookSchema, backend),
	}
	ctx := context.Background()
	if err := home.categories.EnsureUnique(ctx, "name"); err != nil {
		logger.Warnf("bookstore: category index: %v", err)
	}
	if err := home.books.EnsureUnique(ctx, "bookName"); err != nil {
		logger.Warnf("bookstore: book index: %v", err)
	}
	home.register(rg)

	content := &pages{svc: service.New(contentSchema, backend), categories: home, label: "Book", deleted: "Book deleted"}
	cg := rg.Group("/content")
	content.register(cg, "/content")
	cg.GET("/categories", func(c *gin.Context) {
		list, err := home.categories.List(c.Request.Context(), nil, resource.FindOptions{})
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	seo := &pages{svc: service.New(seoCategorySchema, backend), categories: home, label: "Category", deleted: "Category deleted"}
	seo.register(rg.Group("/category"))

	handler.RegisterCRUD(rg, "/requests", service.New(requestSchema, backend), handler.Options{
		NotFoundOnEmpty: true,
		EmptyMessage:    "No book requests found",
		CreatedKey:      "request",
		CreatedMessage:  "Book request submitted successfully",
		Label:           "Book request",
	})

	handler.RegisterCRUD(rg, "/reviews", service.New(reviewSchema, backend), handler.Options{
		Sort:           "createdAt",
		Desc:           true,
		CreatedKey:     "review",
		CreatedMessage: "Review submitted successfully",
		UpdatedMessage: "Review updated successfully",
		Label:          "Review",
	})
}
