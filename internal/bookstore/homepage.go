package bookstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Homepage serves the storefront categories and the books listed in them.
type Homepage struct {
	categories *service.Service
	books      *service.Service
}

func (h *Homepage) register(rg *gin.RouterGroup) {
	rg.GET("/categories", h.listCategories)
	rg.POST("/categories", h.createCategory)
	rg.GET("/categories/:categoryName", h.categoryWithBooks)
	rg.POST("/categories/:categoryName", h.createBooks)
	rg.GET("/categories/:categoryName/:bookId", h.bookDetails)
	rg.DELETE("/categories", h.deleteCategories)
	rg.DELETE("/books", h.deleteBooks)
}

// CategoryNames lists the storefront category names.
func (h *Homepage) CategoryNames(ctx context.Context) ([]string, error) {
	list, err := h.categories.List(ctx, nil, resource.FindOptions{Projection: resource.Include("name")})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, d := range list {
		names = append(names, resource.String(d, "name"))
	}
	return names, nil
}

func (h *Homepage) listCategories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context(), nil, resource.FindOptions{})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if len(list) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No categories found"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Homepage) createCategory(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	ctx := c.Request.Context()
	name := strings.TrimSpace(resource.String(body, "name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}
	if _, err := h.categories.FindOne(ctx, resource.Document{"name": name}, resource.Projection{}); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Category '%s' already exists", name)})
		return
	} else if !errors.Is(err, resource.ErrNotFound) {
		handler.WriteError(c, err)
		return
	}
	created, err := h.categories.Create(ctx, resource.Document{"name": name, "books": []interface{}{}})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// exactName matches a category name case-insensitively.
func exactName(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
}

func (h *Homepage) categoryWithBooks(c *gin.Context) {
	ctx := c.Request.Context()
	cat, err := h.categories.FindOne(ctx, resource.Document{"name": exactName(c.Param("categoryName"))}, resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, "Category not found for the specified name")
		return
	}
	books, err := h.populate(ctx, resource.Slice(cat, "books"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categoryName": resource.String(cat, "name"), "books": books})
}

// populate resolves book ids into summaries, keeping the category's order.
func (h *Homepage) populate(ctx context.Context, ids []interface{}) ([]resource.Document, error) {
	out := []resource.Document{}
	if len(ids) == 0 {
		return out, nil
	}
	found, err := h.books.List(ctx, resource.Document{"_id": resource.Document{"$in": ids}}, resource.FindOptions{Projection: bookSummary})
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]resource.Document, len(found))
	for _, b := range found {
		byID[resource.ID(b)] = b
	}
	for _, id := range ids {
		oid, ok := id.(primitive.ObjectID)
		if !ok {
			continue
		}
		if b, ok := byID[oid]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// Slug builds the book's URL name from its title and sub category.
func Slug(title, subCategory string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-") + "-" + strings.ReplaceAll(subCategory, " ", "-"))
}

func (h *Homepage) uniqueBookName(ctx context.Context, base string) (string, error) {
	name := base
	for n := 1; ; n++ {
		count, err := h.books.Count(ctx, resource.Document{"bookName": name})
		if err != nil {
			return "", err
		}
		if count == 0 {
			return name, nil
		}
		name = fmt.Sprintf("%s-%d", base, n)
	}
}

// createBooks validates every book before storing any, then links each one
// to the named category when it exists.
func (h *Homepage) createBooks(c *gin.Context) {
	docs, err := handler.BindMany(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input must be a non-empty array of book objects"})
		return
	}
	ctx := c.Request.Context()
	categoryName := c.Param("categoryName")
	for _, d := range docs {
		if _, err := bookSchema.Prepare(d); err != nil {
			handler.WriteError(c, err)
			return
		}
	}

	cat, err := h.categories.FindOne(ctx, resource.Document{"name": categoryName}, resource.Include("_id"))
	if err != nil && !errors.Is(err, resource.ErrNotFound) {
		handler.WriteError(c, err)
		return
	}

	saved := make([]resource.Document, 0, len(docs))
	for _, d := range docs {
		name, err := h.uniqueBookName(ctx, Slug(resource.String(d, "title"), resource.String(d, "subCategory")))
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		d["bookName"] = name
		d["categoryName"] = categoryName
		book, err := h.books.Create(ctx, d)
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		saved = append(saved, book)
		if cat != nil {
			if _, err := h.categories.Push(ctx, resource.ID(cat), "books", resource.ID(book)); err != nil {
				handler.WriteError(c, err)
				return
			}
		}
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Homepage) bookDetails(c *gin.Context) {
	oid, err := resource.ParseID(c.Param("bookId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID format"})
		return
	}
	book, err := h.books.GetByID(c.Request.Context(), oid, resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, "Book not found")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Homepage) deleteCategories(c *gin.Context) {
	if _, err := h.categories.DeleteWhere(c.Request.Context(), nil); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All categories deleted successfully"})
}

// deleteBooks removes every book and empties the category book lists.
func (h *Homepage) deleteBooks(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.books.DeleteWhere(ctx, nil); err != nil {
		handler.WriteError(c, err)
		return
	}
	if _, err := h.categories.SetMany(ctx, nil, resource.Document{"books": []interface{}{}}); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All books deleted successfully"})
}
