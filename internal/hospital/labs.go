package hospital

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
)

type labs struct {
	svc *service.Service
}

func (l *labs) register(rg *gin.RouterGroup) {
	rg.GET("/labs/alphabets", func(c *gin.Context) { c.JSON(http.StatusOK, resource.Letters(LabExcludedLetters...)) })
	rg.GET("/labs/alphabets/:letter", l.namesByLetter)
	rg.GET("/lab/alphabets/:id", l.get)
	rg.POST("/lab", l.create)
	rg.POST("/labs/:letter", l.createForLetter)
	rg.POST("/labs/:letter/bulk", l.createBulk)
	rg.PUT("/lab/:id", l.update)
	rg.DELETE("/lab/:id", l.remove)
	rg.GET("/event/labs/alphabets/:letter", l.namesByLetter)
	rg.GET("/event/lab/alphabets/:id", l.details)
}

func excludedLetter(letter string) bool {
	for _, x := range LabExcludedLetters {
		if x == letter {
			return true
		}
	}
	return false
}

func (l *labs) namesByLetter(c *gin.Context) {
	list, err := l.svc.List(c.Request.Context(), resource.Document{"name": namePrefix(letterParam(c))}, resource.FindOptions{Projection: resource.Include("name")})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, d := range list {
		out = append(out, gin.H{"id": resource.ID(d), "name": resource.String(d, "name")})
	}
	c.JSON(http.StatusOK, out)
}

func (l *labs) get(c *gin.Context) {
	d, err := l.svc.Get(c.Request.Context(), c.Param("id"), resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, "Lab not found")
		return
	}
	c.JSON(http.StatusOK, d)
}

// details is the lab profile without its identity fields.
func (l *labs) details(c *gin.Context) {
	d, err := l.svc.Get(c.Request.Context(), c.Param("id"), resource.Exclude("_id", "name"))
	if err != nil {
		handler.WriteNotFound(c, err, "Lab not found")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (l *labs) create(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	name := resource.String(body, "name")
	if excludedLetter(firstLetter(name)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Lab name cannot start with %s", firstLetter(name))})
		return
	}
	l.save(c, body)
}

func (l *labs) createForLetter(c *gin.Context) {
	letter := letterParam(c)
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if excludedLetter(letter) || !startsWith(resource.String(body, "name"), letter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Lab name must start with the letter %s", letter)})
		return
	}
	l.save(c, body)
}

func (l *labs) save(c *gin.Context, body resource.Document) {
	saved, err := l.svc.Create(c.Request.Context(), body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (l *labs) createBulk(c *gin.Context) {
	letter := letterParam(c)
	if excludedLetter(letter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot create labs for letter %s", letter)})
		return
	}
	docs, err := handler.BindMany(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	var invalid []resource.Document
	for _, d := range docs {
		if name := resource.String(d, "name"); name == "" || !startsWith(name, letter) {
			invalid = append(invalid, d)
		}
	}
	if len(invalid) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lab names", "invalidLabs": invalid})
		return
	}
	saved, err := l.svc.CreateMany(c.Request.Context(), docs)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (l *labs) update(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if name := resource.String(body, "name"); name != "" && excludedLetter(firstLetter(name)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Lab name cannot start with %s", firstLetter(name))})
		return
	}
	d, err := l.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		handler.WriteNotFound(c, err, "Lab not found")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (l *labs) remove(c *gin.Context) {
	d, err := l.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.WriteNotFound(c, err, "Lab not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lab deleted", "deletedLab": d})
}
