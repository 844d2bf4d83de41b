package fitness

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
	Register(r.Group("/api/fitness"), repository.NewMemoryBackend())
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

func TestBMIAndCategory(t *testing.T) {
	cases := []struct {
		weight, height float64
		bmi            string
		category       string
	}{
		{50, 180, "15.4", Underweight},
		{70, 175, "22.9", Normal},
		{80, 175, "26.1", Overweight},
		{100, 170, "34.6", Obese},
	}
	for _, tc := range cases {
		bmi := BMI(tc.weight, tc.height)
		assert.Equal(t, tc.bmi, bmi.String())
		assert.Equal(t, tc.category, Category(bmi))
	}
	p, ok := PlanFor(Overweight)
	require.True(t, ok)
	assert.Equal(t, 1700, p.CalorieTarget)
	assert.Len(t, p.FoodPlan, 4)
	_, ok = PlanFor("Athletic")
	assert.False(t, ok)
}

func TestBMIPlans(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/fitness/bmi", `{"height":175}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/fitness/bmi", `{"height":0,"weight":70}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/fitness/bmi", `{"height":175,"weight":70,"gender":"other"}`).Code)

	w := call(r, http.MethodPost, "/api/fitness/bmi", `{"name":"Sam","age":30,"gender":"male","height":175,"weight":70,"bmi":99}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var plan map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, 22.9, plan["bmi"])
	assert.Equal(t, Normal, plan["bmiCategory"])
	assert.Equal(t, 2100.0, plan["calorieTarget"])
	id := plan["_id"].(string)

	w = call(r, http.MethodGet, "/api/fitness/bmi", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "foodPlan")
	assert.Contains(t, w.Body.String(), id)

	w = call(r, http.MethodGet, "/api/fitness/bmi/"+id+"/plan", "")
	require.Equal(t, http.StatusOK, w.Code)
	var food map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &food))
	assert.Contains(t, food, "foodPlan")
	assert.NotContains(t, food, "bmi")
	assert.Contains(t, w.Body.String(), "Oatmeal with fruits")

	// age only: plan untouched
	w = call(r, http.MethodPut, "/api/fitness/bmi/"+id, `{"age":31}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, 31.0, plan["age"])
	assert.Equal(t, Normal, plan["bmiCategory"])

	w = call(r, http.MethodPut, "/api/fitness/bmi/"+id, `{"weight":100}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, 32.7, plan["bmi"])
	assert.Equal(t, Obese, plan["bmiCategory"])
	assert.Equal(t, 1400.0, plan["calorieTarget"])

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/api/fitness/bmi/xyz", "").Code)
	w = call(r, http.MethodDelete, "/api/fitness/bmi/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Plan deleted successfully")
	w = call(r, http.MethodGet, "/api/fitness/bmi/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Plan not found")
}
