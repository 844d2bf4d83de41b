package hospital

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
)

// diseases files disease entries under alphabet documents. Diseases store the
// alphabet's id and are returned with it resolved to {_id, letter}.
type diseases struct {
	alphabets *service.Service
	svc       *service.Service
}

func (d *diseases) register(rg *gin.RouterGroup) {
	rg.GET("/diseases/alphabets", d.listAlphabets)
	rg.POST("/alphabets", d.createAlphabet)
	rg.POST("/diseases/all", d.createAll)
	rg.GET("/diseases/:letter", d.byLetter)
	rg.POST("/diseases/:letter", d.create)
	rg.POST("/diseases/bulk/:letter", d.createBulk)
	rg.GET("/diseases/id/:diseaseId", d.get)
	rg.PUT("/diseases/id/:diseaseId", d.update)
	rg.DELETE("/diseases/id/:diseaseId", d.remove)
}

func validDiseaseLetter(letter string) bool {
	for _, l := range DiseaseLetters {
		if l == letter {
			return true
		}
	}
	return false
}

func (d *diseases) listAlphabets(c *gin.Context) {
	list, err := d.alphabets.List(c.Request.Context(), nil, resource.FindOptions{})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "alphabets": list})
}

func (d *diseases) createAlphabet(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	letter := strings.ToUpper(strings.TrimSpace(resource.String(body, "letter")))
	if !validDiseaseLetter(letter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid letter"})
		return
	}
	ctx := c.Request.Context()
	if n, err := d.alphabets.Count(ctx, resource.Document{"letter": letter}); err != nil {
		handler.WriteError(c, err)
		return
	} else if n > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Alphabet already exists"})
		return
	}
	created, err := d.alphabets.Create(ctx, resource.Document{"letter": letter})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// alphabet resolves the :letter parameter, writing 400 or 404 when it cannot.
func (d *diseases) alphabet(c *gin.Context) (resource.Document, bool) {
	letter := letterParam(c)
	if !validDiseaseLetter(letter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid letter: %s", letter)})
		return nil, false
	}
	a, err := d.alphabets.FindOne(c.Request.Context(), resource.Document{"letter": letter}, resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, fmt.Sprintf("Alphabet %s not found", letter))
		return nil, false
	}
	return a, true
}

func (d *diseases) byLetter(c *gin.Context) {
	a, ok := d.alphabet(c)
	if !ok {
		return
	}
	list, err := d.svc.List(c.Request.Context(), resource.Document{"alphabet": resource.ID(a)}, resource.FindOptions{})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "diseases": list})
}

func (d *diseases) create(c *gin.Context) {
	a, ok := d.alphabet(c)
	if !ok {
		return
	}
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	created, err := d.svc.Create(c.Request.Context(), resource.Document{
		"alphabet": resource.ID(a),
		"name":     body["name"],
		"see":      body["see"],
	})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (d *diseases) createBulk(c *gin.Context) {
	letter := letterParam(c)
	if !validDiseaseLetter(letter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid letter: %s", letter)})
		return
	}
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	items := resource.Slice(body, "diseases")
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: diseases must be a non-empty array"})
		return
	}
	a, ok := d.alphabet(c)
	if !ok {
		return
	}
	docs := make([]resource.Document, 0, len(items))
	for _, it := range items {
		item := resource.ToDocument(it)
		docs = append(docs, resource.Document{"alphabet": resource.ID(a), "name": item["name"], "see": item["see"]})
	}
	d.insert(c, docs)
}

// createAll files each disease under the alphabet matching the first
// character of its name. Names whose alphabet does not exist are skipped.
func (d *diseases) createAll(c *gin.Context) {
	docs, err := handler.BindMany(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a non-empty array of diseases"})
		return
	}
	var invalid []resource.Document
	for _, doc := range docs {
		if !validDiseaseLetter(firstLetter(resource.String(doc, "name"))) {
			invalid = append(invalid, doc)
		}
	}
	if len(invalid) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All disease names must start with a letter from A-Z", "invalidDiseases": names(invalid)})
		return
	}
	ids, err := d.alphabetIDs(c.Request.Context())
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if len(ids) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No alphabets found. Please create alphabets first."})
		return
	}
	out := make([]resource.Document, 0, len(docs))
	for _, doc := range docs {
		id, ok := ids[firstLetter(resource.String(doc, "name"))]
		if !ok {
			continue
		}
		out = append(out, resource.Document{"alphabet": id, "name": doc["name"], "see": doc["see"]})
	}
	d.insert(c, out)
}

func (d *diseases) alphabetIDs(ctx context.Context) (map[string]interface{}, error) {
	list, err := d.alphabets.List(ctx, nil, resource.FindOptions{})
	if err != nil {
		return nil, err
	}
	ids := make(map[string]interface{}, len(list))
	for _, a := range list {
		ids[resource.String(a, "letter")] = resource.ID(a)
	}
	return ids, nil
}

func (d *diseases) insert(c *gin.Context, docs []resource.Document) {
	saved := []resource.Document{}
	if len(docs) > 0 {
		var err error
		if saved, err = d.svc.CreateMany(c.Request.Context(), docs); err != nil {
			handler.WriteError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"count": len(saved), "diseases": saved})
}

// populate replaces the stored alphabet id with the alphabet document.
func (d *diseases) populate(ctx context.Context, disease resource.Document) (resource.Document, error) {
	oid, ok := disease["alphabet"]
	if !ok {
		return disease, nil
	}
	a, err := d.alphabets.FindOne(ctx, resource.Document{"_id": oid}, resource.Projection{})
	if errors.Is(err, resource.ErrNotFound) {
		disease["alphabet"] = nil
		return disease, nil
	}
	if err != nil {
		return nil, err
	}
	disease["alphabet"] = a
	return disease, nil
}

func (d *diseases) get(c *gin.Context) {
	ctx := c.Request.Context()
	disease, err := d.svc.Get(ctx, c.Param("diseaseId"), resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, "Disease not found")
		return
	}
	d.writePopulated(c, disease, http.StatusOK)
}

func (d *diseases) update(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	disease, err := d.svc.Update(c.Request.Context(), c.Param("diseaseId"), body)
	if err != nil {
		handler.WriteNotFound(c, err, "Disease not found")
		return
	}
	d.writePopulated(c, disease, http.StatusOK)
}

func (d *diseases) writePopulated(c *gin.Context, disease resource.Document, status int) {
	out, err := d.populate(c.Request.Context(), disease)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(status, out)
}

func (d *diseases) remove(c *gin.Context) {
	if _, err := d.svc.Delete(c.Request.Context(), c.Param("diseaseId")); err != nil {
		handler.WriteNotFound(c, err, "Disease not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Disease deleted successfully"})
}
