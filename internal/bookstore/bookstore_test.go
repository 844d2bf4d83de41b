package bookstore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api/bookstore"), repository.NewMemoryBackend())
	return r
}

func call(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const twoBooks = `[
	{"title":"Physics Part 1","price":450,"imageUrl":"p1.png","subCategory":"Class 12","description":"NCERT",
	 "viewCount":0,"estimatedDelivery":"3 days","tags":["science"],"condition":"NEW - ORIGINAL PRICE"},
	{"title":"Physics Part 1","price":300,"imageUrl":"p1.png","subCategory":"Class 12","description":"used",
	 "viewCount":4,"estimatedDelivery":"5 days","tags":[],"condition":"OLD - 35% OFF"}
]`

func TestSlug(t *testing.T) {
	assert.Equal(t, "physics-part-1-class-12", Slug("Physics Part 1", "Class 12"))
}

func TestHomepageCategoriesAndBooks(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/bookstore/categories", "").Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/bookstore/categories", `{}`).Code)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/bookstore/categories", `{"name":"school-books"}`).Code)
	w := call(r, http.MethodPost, "/api/bookstore/categories", `{"name":"school-books"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	// not an array, empty array, bad condition
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/bookstore/categories/school-books", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/bookstore/categories/school-books", `[]`).Code)
	bad := strings.Replace(twoBooks, "OLD - 35% OFF", "USED", 1)
	w = call(r, http.MethodPost, "/api/bookstore/categories/school-books", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Condition must be")
	negative := strings.Replace(twoBooks, `"viewCount":4`, `"viewCount":-1`, 1)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/bookstore/categories/school-books", negative).Code)

	w = call(r, http.MethodPost, "/api/bookstore/categories/school-books", twoBooks)
	require.Equal(t, http.StatusCreated, w.Code)
	var saved []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.Len(t, saved, 2)
	assert.Equal(t, "physics-part-1-class-12", saved[0]["bookName"])
	assert.Equal(t, "physics-part-1-class-12-1", saved[1]["bookName"])
	assert.Equal(t, "school-books", saved[0]["categoryName"])

	w = call(r, http.MethodGet, "/api/bookstore/categories/SCHOOL-BOOKS", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		CategoryName string                   `json:"categoryName"`
		Books        []map[string]interface{} `json:"books"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "school-books", page.CategoryName)
	require.Len(t, page.Books, 2)
	assert.NotContains(t, page.Books[0], "description")
	assert.Equal(t, saved[0]["_id"], page.Books[0]["_id"])

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/bookstore/categories/nope", "").Code)

	id := saved[1]["_id"].(string)
	w = call(r, http.MethodGet, "/api/bookstore/categories/school-books/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "used")
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/api/bookstore/categories/school-books/xyz", "").Code)

	require.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/bookstore/books", "").Code)
	w = call(r, http.MethodGet, "/api/bookstore/categories/school-books", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Empty(t, page.Books)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/bookstore/categories/school-books/"+id, "").Code)

	require.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/bookstore/categories", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/bookstore/categories", "").Code)
}

func TestContentCategoryValidationAndTags(t *testing.T) {
	r := newRouter()

	// no storefront categories yet, so the defaults apply
	body := `{"title":"Guide","content":"...","category":"other","tags":"exam, tips ,","seoTitle":"t","seoDescription":"d"}`
	w := call(r, http.MethodPost, "/api/bookstore/content", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, []interface{}{"exam", "tips"}, created["tags"])
	id := created["_id"].(string)

	w = call(r, http.MethodPost, "/api/bookstore/content/content", strings.Replace(body, `"other"`, `"comics"`, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "comics is not a valid category")

	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/bookstore/categories", `{"name":"comics"}`).Code)
	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/bookstore/content/content", strings.Replace(body, `"other"`, `"comics"`, 1)).Code)

	// blank values keep the stored ones
	w = call(r, http.MethodPut, "/api/bookstore/content/"+id, `{"title":"","seoTitle":"New"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Guide", updated["title"])
	assert.Equal(t, "New", updated["seoTitle"])

	w = call(r, http.MethodGet, "/api/bookstore/content/categories", "")
	assert.Contains(t, w.Body.String(), "comics")

	w = call(r, http.MethodDelete, "/api/bookstore/content/"+id, "")
	assert.Contains(t, w.Body.String(), "Book deleted")
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/bookstore/content/"+id, "").Code)

	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/bookstore/category",
		`{"name":"Comics","category":"comics","seoTitle":"t","seoDescription":"d"}`).Code)
}

func TestRequestsAndReviews(t *testing.T) {
	r := newRouter()
	w := call(r, http.MethodGet, "/api/bookstore/requests", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No book requests found")

	w = call(r, http.MethodPost, "/api/bookstore/requests", `{"name":"A","email":"a@x.io","mobile":"1","bookTitle":"B",
		"publisher":"P","author":"Au","classLevel":"10","message":"please"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Book request submitted successfully")
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/bookstore/requests", `{"name":"A"}`).Code)

	w = call(r, http.MethodPost, "/api/bookstore/reviews", `{"name":"A","email":"a@x.io","rating":6,"review":"meh"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Rating must be between 1 and 5")

	w = call(r, http.MethodPost, "/api/bookstore/reviews", `{"name":"A","email":"a@x.io","rating":4,"review":"good"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Review map[string]interface{} `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	id := body.Review["_id"].(string)

	w = call(r, http.MethodPut, "/api/bookstore/reviews/"+id, `{"rating":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = call(r, http.MethodPut, "/api/bookstore/reviews/"+id, `{"rating":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Review updated successfully")
	assert.Contains(t, call(r, http.MethodDelete, "/api/bookstore/reviews/"+id, "").Body.String(), "Review deleted successfully")
}
