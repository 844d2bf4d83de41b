package clothing

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
	Register(r.Group("/api/clothing"), repository.NewMemoryBackend())
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

const shirt = `{"name":"Linen Shirt","image":"s.png","price":49.5,"colors":["white","blue"],"about":"Breathable",
	"gender":"men","productCategory":"shirts","categoryName":"Shirts","fit":"Relaxed","sizeOptions":["S","M"]}`

func TestCategories(t *testing.T) {
	r := newRouter()

	w := call(r, http.MethodGet, "/api/clothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No categories found")

	w = call(r, http.MethodPost, "/api/clothing/categories", `{"name":"Shirts"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Both name and gender are required")
	w = call(r, http.MethodPost, "/api/clothing/categories", `{"name":"Shirts","gender":"kids"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Gender must be either men or women")

	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/clothing/categories", `{"name":"Shirts","gender":"men"}`).Code)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/clothing/categories", `{"name":"Shirts","gender":"women"}`).Code)
	w = call(r, http.MethodPost, "/api/clothing/categories", `{"name":"Shirts","gender":"men"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Category 'Shirts' already exists for men")

	w = call(r, http.MethodGet, "/api/clothing", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = call(r, http.MethodGet, "/api/clothing/kids/shirts", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "valid gender")
	w = call(r, http.MethodGet, "/api/clothing/men/jeans", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Category not found for the specified gender and name")

	require.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/clothing/categories", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/clothing", "").Code)
}

func TestDresses(t *testing.T) {
	r := newRouter()
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/clothing/categories", `{"name":"Shirts","gender":"men"}`).Code)

	w := call(r, http.MethodPost, "/api/clothing/dresses", shirt)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Input must be an array of dress objects")
	w = call(r, http.MethodPost, "/api/clothing/dresses", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "At least one dress object is required")
	w = call(r, http.MethodPost, "/api/clothing/dresses", `[{"name":"x","gender":"men"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "are required for each dress")
	w = call(r, http.MethodPost, "/api/clothing/dresses", "["+strings.Replace(shirt, `"gender":"men"`, `"gender":"kids"`, 1)+"]")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Gender must be either men or women for each dress")

	// an unknown category rejects the whole batch
	w = call(r, http.MethodPost, "/api/clothing/dresses", "["+shirt+","+strings.Replace(shirt, `"Shirts"`, `"Jeans"`, 1)+"]")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Category 'Jeans' not found for gender men")
	w = call(r, http.MethodGet, "/api/clothing/men/shirts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dresses":[]`)

	common := strings.Replace(shirt, `"categoryName":"Shirts"`, `"categoryName":"Jeans","isCommon":true`, 1)
	w = call(r, http.MethodPost, "/api/clothing/dresses", "["+shirt+","+common+"]")
	require.Equal(t, http.StatusCreated, w.Code)
	var dresses []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dresses))
	require.Len(t, dresses, 2)
	assert.NotContains(t, dresses[0], "categoryName")
	assert.NotContains(t, dresses[0], "fit")
	assert.Equal(t, false, dresses[0]["isCommon"])
	assert.Equal(t, true, dresses[1]["isCommon"])
	assert.NotEmpty(t, dresses[1]["createdAt"])
	id := dresses[0]["_id"].(string)

	w = call(r, http.MethodGet, "/api/clothing/men/SHIRTS", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		CategoryName string                   `json:"categoryName"`
		Dresses      []map[string]interface{} `json:"dresses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "Shirts", page.CategoryName)
	require.Len(t, page.Dresses, 1)
	assert.Equal(t, id, page.Dresses[0]["_id"])

	w = call(r, http.MethodGet, "/api/clothing/categories/men/shirts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = call(r, http.MethodGet, "/api/clothing/men/shirts/nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid dress ID format")
	w = call(r, http.MethodGet, "/api/clothing/men/shirts/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	assert.Equal(t, "Relaxed", details["fit"])
	dress, ok := details["dressId"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Linen Shirt", dress["name"])

	require.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/clothing/dresses", "").Code)
	w = call(r, http.MethodGet, "/api/clothing/men/shirts/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Dress details not found")
	w = call(r, http.MethodGet, "/api/clothing/men/shirts", "")
	assert.Contains(t, w.Body.String(), `"dresses":[]`)
}
