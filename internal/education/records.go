package education

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"github.com/varshinivarma16/booksbackend/internal/storage"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
)

// PresignTTL is how long a document download link stays valid.
const PresignTTL = 15 * time.Minute

// maxUpload caps document file uploads.
const maxUpload = 10 << 20

// registerRecord mounts the list-at-plural, item-at-singular routes shared by
// schedules and documents.
func registerRecord(rg *gin.RouterGroup, plural, singular string, svc *service.Service, opts handler.Options) {
	rg.GET("/"+plural, handler.List(svc, opts))
	rg.GET("/"+singular+"/:id", handler.Get(svc, opts))
	rg.POST("/"+singular, handler.Create(svc, opts))
	rg.PUT("/"+singular+"/:id", handler.Update(svc, opts))
}

// RegisterSchedules mounts class schedules under rg (normally /api/schedule).
func RegisterSchedules(rg *gin.RouterGroup, backend repository.Backend) {
	svc := service.New(scheduleSchema, backend)
	opts := handler.Options{
		Sort:           "createdAt",
		Desc:           true,
		CreatedKey:     "schedule",
		CreatedMessage: "Schedule created successfully",
		UpdatedMessage: "Schedule updated successfully",
		Label:          "Schedule",
	}
	registerRecord(rg, "schedules", "schedule", svc, opts)
	rg.DELETE("/schedule/:id", handler.Delete(svc, opts))
}

// Documents serves student document records and their uploaded files.
type Documents struct {
	svc   *service.Service
	store storage.ObjectStore
	opts  handler.Options
}

// RegisterDocuments mounts student documents under rg (normally
// /api/document). store may be nil, in which case file routes answer 503.
func RegisterDocuments(rg *gin.RouterGroup, backend repository.Backend, store storage.ObjectStore) {
	d := &Documents{
		svc:   service.New(documentSchema, backend),
		store: store,
		opts: handler.Options{
			Sort:           "createdAt",
			Desc:           true,
			CreatedKey:     "document",
			CreatedMessage: "Document created successfully",
			UpdatedMessage: "Document updated successfully",
			Label:          "Document",
		},
	}
	registerRecord(rg, "documents", "document", d.svc, d.opts)
	rg.DELETE("/document/:id", d.remove)
	rg.POST("/document/:id/file", d.upload)
	rg.GET("/document/:id/file", d.download)
}

func (d *Documents) remove(c *gin.Context) {
	ctx := c.Request.Context()
	doc, err := d.svc.Delete(ctx, c.Param("id"))
	if err != nil {
		handler.WriteNotFound(c, err, "Document not found")
		return
	}
	if key := resource.String(doc, "fileKey"); key != "" && d.store != nil {
		if err := d.store.DeleteFile(ctx, key); err != nil {
			logger.Warnf("document %s: removing %s failed: %v", c.Param("id"), key, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// fileFormat maps an upload's extension onto the accepted formats.
func fileFormat(name string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	return ext, contains(FileFormats, ext)
}

func (d *Documents) upload(c *gin.Context) {
	if d.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": storage.ErrNotConfigured.Error()})
		return
	}
	ctx := c.Request.Context()
	doc, err := d.svc.Get(ctx, c.Param("id"), resource.Include("fileKey"))
	if err != nil {
		handler.WriteNotFound(c, err, "Document not found")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	format, ok := fileFormat(fh.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a pdf, jpg or png"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	defer f.Close()

	key := "documents/" + resource.ID(doc).Hex() + "/" + uuid.NewString() + "." + format
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := d.store.UploadFile(ctx, key, f, fh.Size, contentType); err != nil {
		logger.Errorf("document %s: upload failed: %v", c.Param("id"), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	updated, err := d.svc.UpdateByID(ctx, resource.ID(doc), resource.Document{"fileKey": key, "fileFormat": format})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if old := resource.String(doc, "fileKey"); old != "" {
		if err := d.store.DeleteFile(ctx, old); err != nil {
			logger.Warnf("document %s: removing replaced file %s failed: %v", c.Param("id"), old, err)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"message": "File uploaded successfully", "document": updated})
}

func (d *Documents) download(c *gin.Context) {
	if d.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": storage.ErrNotConfigured.Error()})
		return
	}
	ctx := c.Request.Context()
	doc, err := d.svc.Get(ctx, c.Param("id"), resource.Include("fileKey"))
	if err != nil {
		handler.WriteNotFound(c, err, "Document not found")
		return
	}
	key := resource.String(doc, "fileKey")
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No file uploaded for this document"})
		return
	}
	url, err := d.store.GetPresignedURL(ctx, key, PresignTTL)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": int(PresignTTL.Seconds())})
}
