package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
)

// Options tunes the generic CRUD routes registered by RegisterCRUD.
type Options struct {
	ListProjection   resource.Projection
	DetailProjection resource.Projection
	Sort             string
	Desc             bool
	// NotFoundOnEmpty makes an empty list answer 404 instead of [].
	NotFoundOnEmpty bool
	EmptyMessage    string
	// UpdateMethod is PUT unless set to PATCH.
	UpdateMethod string
	// CreatedKey wraps a single created document as {message: CreatedMessage, <CreatedKey>: doc}.
	CreatedKey     string
	CreatedMessage string
	// UpdatedMessage wraps an updated document the same way, under CreatedKey.
	UpdatedMessage string
	DeleteMessage  string
	Label          string
	// DetailPath overrides the item path (defaults to path + "/:id").
	DetailPath string
}

// RegisterCRUD mounts create, list, get, update and delete on rg.
func RegisterCRUD(rg *gin.RouterGroup, path string, svc *service.Service, opts Options) {
	detail := opts.DetailPath
	if detail == "" {
		detail = path + "/:id"
	}
	rg.POST(path, Create(svc, opts))
	rg.GET(path, List(svc, opts))
	rg.GET(detail, Get(svc, opts))
	if opts.UpdateMethod == http.MethodPatch {
		rg.PATCH(detail, Update(svc, opts))
	} else {
		rg.PUT(detail, Update(svc, opts))
	}
	rg.DELETE(detail, Delete(svc, opts))
}

func (o Options) label() string {
	if o.Label == "" {
		return "Resource"
	}
	return o.Label
}

// Create accepts one document or an array of documents.
func Create(svc *service.Service, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, many, err := BindOneOrMany(c)
		if err != nil {
			WriteError(c, err)
			return
		}
		created, err := svc.CreateMany(c.Request.Context(), docs)
		if err != nil {
			WriteError(c, err)
			return
		}
		if many {
			c.JSON(http.StatusCreated, created)
			return
		}
		if opts.CreatedKey != "" {
			c.JSON(http.StatusCreated, gin.H{"message": opts.CreatedMessage, opts.CreatedKey: created[0]})
			return
		}
		c.JSON(http.StatusCreated, created[0])
	}
}

func List(svc *service.Service, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), nil, resource.FindOptions{Projection: opts.ListProjection, Sort: opts.Sort, Desc: opts.Desc})
		if err != nil {
			WriteError(c, err)
			return
		}
		if opts.NotFoundOnEmpty && len(list) == 0 {
			msg := opts.EmptyMessage
			if msg == "" {
				msg = fmt.Sprintf("No %s records found", opts.label())
			}
			c.JSON(http.StatusNotFound, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func Get(svc *service.Service, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), lastParam(c), opts.DetailProjection)
		if err != nil {
			WriteNotFound(c, err, opts.label()+" not found")
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// Update merges the body into the document named by the last path parameter.
func Update(svc *service.Service, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		patch, err := BindDocument(c)
		if err != nil {
			WriteError(c, err)
			return
		}
		d, err := svc.Update(c.Request.Context(), lastParam(c), patch)
		if err != nil {
			WriteNotFound(c, err, opts.label()+" not found")
			return
		}
		if opts.UpdatedMessage != "" && opts.CreatedKey != "" {
			c.JSON(http.StatusOK, gin.H{"message": opts.UpdatedMessage, opts.CreatedKey: d})
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// UpdateBy merges the body into the first document whose field equals the
// last path parameter.
func UpdateBy(svc *service.Service, field string, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		patch, err := BindDocument(c)
		if err != nil {
			WriteError(c, err)
			return
		}
		d, err := svc.UpdateWhere(c.Request.Context(), resource.Document{field: lastParam(c)}, patch)
		if err != nil {
			WriteNotFound(c, err, opts.label()+" not found")
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func Delete(svc *service.Service, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := svc.Delete(c.Request.Context(), lastParam(c)); err != nil {
			WriteNotFound(c, err, opts.label()+" not found")
			return
		}
		msg := opts.DeleteMessage
		if msg == "" {
			msg = opts.label() + " deleted successfully"
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

// lastParam returns the single path parameter of an item route.
func lastParam(c *gin.Context) string {
	if len(c.Params) == 0 {
		return ""
	}
	return c.Params[len(c.Params)-1].Value
}

// BindDocument decodes a JSON object body. An empty body yields an empty
// document.
func BindDocument(c *gin.Context) (resource.Document, error) {
	d := resource.Document{}
	if err := c.ShouldBindJSON(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return resource.Document{}, nil
		}
		return nil, &resource.ValidationError{Message: "invalid JSON body: " + err.Error()}
	}
	if d == nil {
		d = resource.Document{}
	}
	return d, nil
}

// BindOneOrMany decodes either a JSON object or a JSON array of objects.
func BindOneOrMany(c *gin.Context) ([]resource.Document, bool, error) {
	var body interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, false, &resource.ValidationError{Message: "invalid JSON body: " + err.Error()}
	}
	switch v := body.(type) {
	case map[string]interface{}:
		return []resource.Document{resource.Document(v)}, false, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, true, &resource.ValidationError{Message: "request body must be a non-empty array"}
		}
		out := make([]resource.Document, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, true, &resource.ValidationError{Message: fmt.Sprintf("item %d is not an object", i)}
			}
			out = append(out, resource.Document(m))
		}
		return out, true, nil
	}
	return nil, false, &resource.ValidationError{Message: "request body must be an object or an array"}
}

// BindMany decodes a body that must be a non-empty array.
func BindMany(c *gin.Context) ([]resource.Document, error) {
	docs, many, err := BindOneOrMany(c)
	if err != nil {
		return nil, err
	}
	if !many {
		return nil, &resource.ValidationError{Message: "request body must be a non-empty array"}
	}
	return docs, nil
}

// WriteError maps service errors onto HTTP status codes.
func WriteError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// WriteNotFound is WriteError with a caller-supplied 404 message.
func WriteNotFound(c *gin.Context, err error, msg string) {
	if errors.Is(err, resource.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	WriteError(c, err)
}

func StatusFor(err error) int {
	switch {
	case resource.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, resource.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, resource.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, resource.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
