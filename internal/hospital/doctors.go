package hospital

import (
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

// Organization is reported on every doctor profile.
const Organization = "Minimalistic"

var drTitle = regexp.MustCompile(`(?i)^dr\.?\s*`)

type doctors struct {
	svc *service.Service
}

func (d *doctors) register(rg *gin.RouterGroup) {
	rg.GET("/doctors", d.list)
	rg.GET("/doctors/alphabets", func(c *gin.Context) { c.JSON(http.StatusOK, resource.Letters()) })
	rg.GET("/doctors/alphabets/:letter", d.byLetter)
	rg.GET("/doctor/:id", d.profile)
	rg.POST("/doctors", d.create)
	rg.POST("/doctors/:letter", d.createForLetter)
	rg.DELETE("/doctors", d.removeAll)
}

func (d *doctors) list(c *gin.Context) {
	list, err := d.svc.List(c.Request.Context(), nil, resource.FindOptions{Projection: doctorCard})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// byLetter lists doctors whose name reads "Dr. <letter>...".
func (d *doctors) byLetter(c *gin.Context) {
	filter := resource.Document{"name": primitive.Regex{Pattern: `^Dr\.\s` + regexp.QuoteMeta(letterParam(c)), Options: "i"}}
	list, err := d.svc.List(c.Request.Context(), filter, resource.FindOptions{Projection: doctorCard})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (d *doctors) profile(c *gin.Context) {
	doc, err := d.svc.Get(c.Request.Context(), c.Param("id"), resource.Exclude("_id"))
	if err != nil {
		handler.WriteNotFound(c, err, "Doctor not found")
		return
	}
	doc["organization"] = Organization
	c.JSON(http.StatusOK, doc)
}

func missingProfile(doc resource.Document) bool {
	for _, f := range []string{"name", "specialist", "location", "photo"} {
		if strings.TrimSpace(resource.String(doc, f)) == "" {
			return true
		}
	}
	return false
}

func (d *doctors) create(c *gin.Context) {
	docs, _, err := handler.BindOneOrMany(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	for _, doc := range docs {
		if missingProfile(doc) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each doctor must include name, specialist, location, and photo"})
			return
		}
	}
	d.save(c, docs)
}

// surnameInitial returns the first letter of a doctor's name after any
// "Dr." title.
func surnameInitial(name string) string {
	return firstLetter(drTitle.ReplaceAllString(strings.TrimSpace(name), ""))
}

func (d *doctors) createForLetter(c *gin.Context) {
	letter := letterParam(c)
	docs, _, err := handler.BindOneOrMany(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	for _, doc := range docs {
		name := resource.String(doc, "name")
		if surnameInitial(name) != letter {
			if name == "" {
				name = "No name provided"
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        fmt.Sprintf("Doctor name must start with %q", letter),
				"providedName": name,
			})
			return
		}
		if missingProfile(doc) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each doctor must include specialist, location, and photo"})
			return
		}
	}
	d.save(c, docs)
}

func (d *doctors) save(c *gin.Context, docs []resource.Document) {
	saved, err := d.svc.CreateMany(c.Request.Context(), docs)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (d *doctors) removeAll(c *gin.Context) {
	n, err := d.svc.DeleteWhere(c.Request.Context(), nil)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All doctors deleted successfully", "deletedCount": n})
}
