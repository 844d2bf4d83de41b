package fitness

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
)

var bmiSchema = &resource.Schema{
	Collection: "bmiplans",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString},
		{Name: "age", Kind: resource.KindNumber, Rules: "gte=0,lte=150"},
		{Name: "gender", Kind: resource.KindString, Rules: "oneof=male female"},
		{Name: "activityLevel", Kind: resource.KindString},
		{Name: "height", Kind: resource.KindNumber, Required: true, Rules: "gt=0", Message: "height must be a positive number of centimetres"},
		{Name: "weight", Kind: resource.KindNumber, Required: true, Rules: "gt=0", Message: "weight must be a positive number of kilograms"},
		{Name: "bmi", Kind: resource.KindNumber},
		{Name: "bmiCategory", Kind: resource.KindString},
		{Name: "calorieTarget", Kind: resource.KindNumber},
		{Name: "foodPlan", Kind: resource.KindArray, Elem: resource.KindObject},
	},
}

// derived fields are never taken from a request body.
var derived = []string{"bmi", "bmiCategory", "calorieTarget", "foodPlan"}

// apply writes bmi, category, calorie target and food plan into d.
func apply(d resource.Document, weight, height float64) {
	bmi := BMI(weight, height)
	category := Category(bmi)
	plan, _ := PlanFor(category)
	d["bmi"] = bmi.InexactFloat64()
	d["bmiCategory"] = category
	d["calorieTarget"] = plan.CalorieTarget
	d["foodPlan"] = plan.foodPlan()
}

type bmiPlans struct {
	svc *service.Service
}

// Register mounts the BMI planner under rg (normally /api/fitness).
func Register(rg *gin.RouterGroup, backend repository.Backend) {
	b := &bmiPlans{svc: service.New(bmiSchema, backend)}
	opts := handler.Options{Label: "Plan", DeleteMessage: "Plan deleted successfully"}
	rg.POST("/bmi", b.create)
	rg.GET("/bmi", handler.List(b.svc, handler.Options{ListProjection: resource.Exclude("foodPlan"), Sort: "createdAt"}))
	rg.GET("/bmi/:id", handler.Get(b.svc, opts))
	rg.GET("/bmi/:id/plan", handler.Get(b.svc, handler.Options{Label: "Plan", DetailProjection: resource.Include("foodPlan")}))
	rg.PUT("/bmi/:id", b.update)
	rg.DELETE("/bmi/:id", handler.Delete(b.svc, opts))
}

func (b *bmiPlans) create(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	for _, f := range derived {
		delete(body, f)
	}
	in, err := bmiSchema.Prepare(body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	w, _ := resource.Number(in, "weight")
	h, _ := resource.Number(in, "height")
	apply(in, w, h)
	saved, err := b.svc.Create(c.Request.Context(), in)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// update merges the body and recomputes the plan when height or weight change.
func (b *bmiPlans) update(c *gin.Context) {
	ctx := c.Request.Context()
	cur, err := b.svc.Get(ctx, c.Param("id"), resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, "Plan not found")
		return
	}
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	for _, f := range derived {
		delete(body, f)
	}
	patch, err := bmiSchema.PreparePatch(body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	_, hw := patch["weight"]
	_, hh := patch["height"]
	if hw || hh {
		w, _ := resource.Number(cur, "weight")
		h, _ := resource.Number(cur, "height")
		if v, ok := resource.Number(patch, "weight"); ok {
			w = v
		}
		if v, ok := resource.Number(patch, "height"); ok {
			h = v
		}
		apply(patch, w, h)
	}
	updated, err := b.svc.UpdateByID(ctx, resource.ID(cur), patch)
	if err != nil {
		handler.WriteNotFound(c, err, "Plan not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}
