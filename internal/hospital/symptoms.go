package hospital

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
)

type symptoms struct {
	svc *service.Service
}

func (s *symptoms) register(rg *gin.RouterGroup) {
	rg.GET("/symptoms/alphabets", func(c *gin.Context) { c.JSON(http.StatusOK, resource.Letters()) })
	rg.GET("/symptoms/:letter", s.byLetter)
	rg.POST("/symptoms/all", s.createAll)
	rg.POST("/symptoms/:letter", s.createForLetter)
	rg.POST("/symptoms/bulk/:letter", s.createBulk)
	rg.PUT("/symptoms/:id", s.update)
	rg.DELETE("/symptoms/:id", s.remove)
}

func (s *symptoms) byLetter(c *gin.Context) {
	list, err := s.svc.List(c.Request.Context(), resource.Document{"name": namePrefix(letterParam(c))}, resource.FindOptions{
		Projection: resource.Include("name", "description"),
		Sort:       "name",
	})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *symptoms) createForLetter(c *gin.Context) {
	letter := letterParam(c)
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	name := resource.String(body, "name")
	if !startsWith(name, letter) {
		if name == "" {
			name = "No name provided"
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        fmt.Sprintf("Symptom name must start with the letter %s", letter),
			"providedName": name,
		})
		return
	}
	saved, err := s.svc.Create(c.Request.Context(), body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *symptoms) createBulk(c *gin.Context) {
	letter := letterParam(c)
	s.insertChecked(c, func(name string) bool { return startsWith(name, letter) },
		fmt.Sprintf("All symptom names must start with the letter %s", letter))
}

func (s *symptoms) createAll(c *gin.Context) {
	s.insertChecked(c, func(name string) bool { return resource.IsLetter(firstLetter(name)) },
		"All symptom names must start with a letter from A-Z")
}

// insertChecked stores a non-empty array of symptoms when every name passes ok.
func (s *symptoms) insertChecked(c *gin.Context, ok func(string) bool, msg string) {
	docs, err := handler.BindMany(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a non-empty array of symptoms"})
		return
	}
	var invalid []resource.Document
	for _, d := range docs {
		if !ok(resource.String(d, "name")) {
			invalid = append(invalid, d)
		}
	}
	if len(invalid) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "invalidSymptoms": names(invalid)})
		return
	}
	saved, err := s.svc.CreateMany(c.Request.Context(), docs)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// update keeps a symptom under its letter: a new name must start with the
// same letter as the stored one.
func (s *symptoms) update(c *gin.Context) {
	ctx := c.Request.Context()
	if !resource.IsValidID(c.Param("id")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symptom ID"})
		return
	}
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	cur, err := s.svc.Get(ctx, c.Param("id"), resource.Include("name"))
	if err != nil {
		handler.WriteNotFound(c, err, "Symptom not found")
		return
	}
	letter := firstLetter(resource.String(cur, "name"))
	if name := resource.String(body, "name"); name != "" && !startsWith(name, letter) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        fmt.Sprintf("Updated symptom name must start with the letter %s", letter),
			"providedName": name,
		})
		return
	}
	patch := resource.Truthy(resource.Document{"name": body["name"], "description": body["description"]})
	updated, err := s.svc.UpdateByID(ctx, resource.ID(cur), patch)
	if err != nil {
		handler.WriteNotFound(c, err, "Symptom not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *symptoms) remove(c *gin.Context) {
	if !resource.IsValidID(c.Param("id")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symptom ID"})
		return
	}
	d, err := s.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.WriteNotFound(c, err, "Symptom not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Symptom deleted successfully", "deletedSymptom": d})
}
