package clothing

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
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog serves the storefront navigation: categories per gender, the
// dresses listed in them and each dress's detail page.
type Catalog struct {
	categories *service.Service
	dresses    *service.Service
	details    *service.Service
}

// Register mounts the catalog under rg (normally /api/clothing).
func Register(rg *gin.RouterGroup, backend repository.Backend) {
	cat := &Catalog{
		categories: service.New(categorySchema, backend),
		dresses:    service.New(dressSchema, backend),
		details:    service.New(detailsSchema, backend),
	}
	rg.GET("", cat.listCategories)
	rg.GET("/:gender/:categoryName", cat.categoryWithDresses)
	rg.GET("/:gender/:categoryName/:dressId", cat.dressDetails)
	rg.GET("/categories/:gender/:categoryName", cat.categoryWithDresses)
	rg.POST("/categories", cat.createCategory)
	rg.POST("/dresses", cat.createDresses)
	rg.DELETE("/categories", cat.deleteCategories)
	rg.DELETE("/dresses", cat.deleteDresses)
}

func validGender(g string) bool { return g == "men" || g == "women" }

func exactName(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
}

func (cat *Catalog) listCategories(c *gin.Context) {
	list, err := cat.categories.List(c.Request.Context(), nil, resource.FindOptions{})
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

func (cat *Catalog) findCategory(ctx context.Context, name, gender string) (resource.Document, error) {
	return cat.categories.FindOne(ctx, resource.Document{"name": exactName(name), "gender": gender}, resource.Projection{})
}

func (cat *Catalog) categoryWithDresses(c *gin.Context) {
	gender := c.Param("gender")
	if !validGender(gender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a valid gender (men or women)"})
		return
	}
	ctx := c.Request.Context()
	category, err := cat.findCategory(ctx, c.Param("categoryName"), gender)
	if err != nil {
		handler.WriteNotFound(c, err, "Category not found for the specified gender and name")
		return
	}
	dresses, err := cat.populate(ctx, resource.Slice(category, "dresses"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categoryName": resource.String(category, "name"), "dresses": dresses})
}

// populate resolves dress ids in category order.
func (cat *Catalog) populate(ctx context.Context, ids []interface{}) ([]resource.Document, error) {
	out := []resource.Document{}
	if len(ids) == 0 {
		return out, nil
	}
	found, err := cat.dresses.List(ctx, resource.Document{"_id": resource.Document{"$in": ids}}, resource.FindOptions{})
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]resource.Document, len(found))
	for _, d := range found {
		byID[resource.ID(d)] = d
	}
	for _, id := range ids {
		if oid, ok := id.(primitive.ObjectID); ok {
			if d, ok := byID[oid]; ok {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func (cat *Catalog) dressDetails(c *gin.Context) {
	oid, err := resource.ParseID(c.Param("dressId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dress ID format"})
		return
	}
	ctx := c.Request.Context()
	details, err := cat.details.FindOne(ctx, resource.Document{"dressId": oid}, resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, "Dress details not found")
		return
	}
	dress, err := cat.dresses.GetByID(ctx, oid, resource.Projection{})
	switch {
	case err == nil:
		details["dressId"] = dress
	case !errors.Is(err, resource.ErrNotFound):
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (cat *Catalog) createCategory(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	name, gender := resource.String(body, "name"), resource.String(body, "gender")
	if name == "" || gender == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and gender are required"})
		return
	}
	if !validGender(gender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Gender must be either men or women"})
		return
	}
	ctx := c.Request.Context()
	if n, err := cat.categories.Count(ctx, resource.Document{"name": name, "gender": gender}); err != nil {
		handler.WriteError(c, err)
		return
	} else if n > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Category '%s' already exists for %s", name, gender)})
		return
	}
	created, err := cat.categories.Create(ctx, resource.Document{"name": name, "gender": gender, "dresses": []interface{}{}})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// createDresses validates every dress and resolves every linked category
// before storing anything. Each dress gets a details record.
func (cat *Catalog) createDresses(c *gin.Context) {
	docs, many, err := handler.BindOneOrMany(c)
	switch {
	case err != nil && many:
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one dress object is required"})
		return
	case err != nil:
		handler.WriteError(c, err)
		return
	case !many:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input must be an array of dress objects"})
		return
	}
	ctx := c.Request.Context()
	links := make([]primitive.ObjectID, len(docs))
	prepared := make([]resource.Document, len(docs))
	for i, d := range docs {
		dress, err := dressSchema.Prepare(d)
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		prepared[i] = dress
		// categoryName only routes the dress and is not stored on it
		name := strings.TrimSpace(resource.String(d, "categoryName"))
		if name == "" || resource.Bool(dress, "isCommon") {
			continue
		}
		gender := resource.String(dress, "gender")
		category, err := cat.findCategory(ctx, name, gender)
		if errors.Is(err, resource.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Category '%s' not found for gender %s", name, gender)})
			return
		}
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		links[i] = resource.ID(category)
	}

	saved, err := cat.dresses.Insert(ctx, prepared...)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	for i, d := range docs {
		dress := saved[i]
		if !links[i].IsZero() {
			if _, err := cat.categories.Push(ctx, links[i], "dresses", resource.ID(dress)); err != nil {
				handler.WriteError(c, err)
				return
			}
		}
		details := resource.Document{"dressId": resource.ID(dress)}
		for _, f := range detailFields {
			if v, ok := d[f]; ok {
				details[f] = v
			}
		}
		if _, err := cat.details.Create(ctx, details); err != nil {
			handler.WriteError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, saved)
}

func (cat *Catalog) deleteCategories(c *gin.Context) {
	if _, err := cat.categories.DeleteWhere(c.Request.Context(), nil); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All categories deleted successfully"})
}

func (cat *Catalog) deleteDresses(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := cat.dresses.DeleteWhere(ctx, nil); err != nil {
		handler.WriteError(c, err)
		return
	}
	if _, err := cat.details.DeleteWhere(ctx, nil); err != nil {
		handler.WriteError(c, err)
		return
	}
	if _, err := cat.categories.SetMany(ctx, nil, resource.Document{"dresses": []interface{}{}}); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All dresses deleted successfully"})
}
