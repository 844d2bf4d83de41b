package hospital

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// letterParam returns the :letter path parameter upper-cased.
func letterParam(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("letter")))
}

func startsWith(name, letter string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(name)), letter)
}

// firstLetter returns the upper-cased first character of name, which may be
// a digit or a non-ASCII letter.
func firstLetter(name string) string {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// namePrefix matches names starting with s, ignoring case.
func namePrefix(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s), Options: "i"}
}

// names collects the names of the rejected items for error bodies.
func names(docs []resource.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		n := resource.String(d, "name")
		if n == "" {
			n = "No name provided"
		}
		out = append(out, n)
	}
	return out
}

// tests is the A-Z medical test index.
type tests struct {
	svc *service.Service
}

func (t *tests) register(rg *gin.RouterGroup) {
	rg.GET("/tests/:letter", t.byLetter)
	rg.POST("/tests/:letter", t.appendToLetter)
	rg.POST("/tests", t.create)
	rg.POST("/tests/appendbyid/:id", t.update)
	rg.PUT("/tests/:id", t.update)
	rg.DELETE("/tests/:id", t.remove)
}

func (t *tests) byLetter(c *gin.Context) {
	letter := letterParam(c)
	if !resource.IsLetter(letter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid letter"})
		return
	}
	list, err := t.svc.List(c.Request.Context(), resource.Document{"firstLetter": letter}, resource.FindOptions{})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (t *tests) appendToLetter(c *gin.Context) {
	letter := letterParam(c)
	if !resource.IsLetter(letter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid letter"})
		return
	}
	docs, _, err := handler.BindOneOrMany(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	for _, d := range docs {
		d["firstLetter"] = letter
	}
	inserted, err := t.svc.CreateMany(c.Request.Context(), docs)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("Appended tests to letter %s", letter), "inserted": inserted})
}

// create files each test under the first letter of its name, or Z.
func (t *tests) create(c *gin.Context) {
	docs, _, err := handler.BindOneOrMany(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	for _, d := range docs {
		letter := firstLetter(resource.String(d, "name"))
		if letter == "" {
			letter = "Z"
		}
		d["firstLetter"] = letter
	}
	inserted, err := t.svc.CreateMany(c.Request.Context(), docs)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inserted)
}

func (t *tests) update(c *gin.Context) {
	patch, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if l, ok := patch["firstLetter"].(string); ok {
		patch["firstLetter"] = strings.ToUpper(l)
	}
	d, err := t.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		handler.WriteNotFound(c, err, "Test not found")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (t *tests) remove(c *gin.Context) {
	d, err := t.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.WriteNotFound(c, err, "Test not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test deleted", "id": resource.ID(d)})
}
