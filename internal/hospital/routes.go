package hospital

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func reviewOptions() handler.Options {
	return handler.Options{
		Sort:           "createdAt",
		Desc:           true,
		CreatedKey:     "review",
		CreatedMessage: "Review submitted successfully",
		UpdatedMessage: "Review updated successfully",
		Label:          "Review",
	}
}

// Register mounts the hospital site under rg (normally /api/hospital).
func Register(rg *gin.RouterGroup, backend repository.Backend) {
	reviews := service.New(reviewSchema, backend)
	opts := reviewOptions()
	handler.RegisterCRUD(rg, "/reviews", reviews, opts)

	(&tests{svc: service.New(testSchema, backend)}).register(rg)
	(&symptoms{svc: service.New(symptomSchema, backend)}).register(rg)
	(&doctors{svc: service.New(doctorSchema, backend)}).register(rg)

	events := service.New(eventSchema, backend)
	eventOpts := handler.Options{Label: "Event", DeleteMessage: "Event deleted"}
	rg.GET("/events", handler.List(events, eventOpts))
	rg.GET("/event/:id", handler.Get(events, eventOpts))
	rg.POST("/events", handler.Create(events, eventOpts))
	rg.PUT("/events/:id", handler.Update(events, eventOpts))
	rg.DELETE("/events/:id", handler.Delete(events, eventOpts))

	jobs := service.New(jobSchema, backend)
	jobOpts := handler.Options{Label: "Job"}
	rg.GET("/job", searchJobs(jobs))
	rg.POST("/job", handler.Create(jobs, jobOpts))
	rg.GET("/job/:jobId", handler.Get(jobs, jobOpts))
	rg.PUT("/job/:jobId", handler.Update(jobs, jobOpts))
	rg.DELETE("/job/:jobId", handler.Delete(jobs, jobOpts))

	lab := &labs{svc: service.New(labSchema, backend)}
	alpha := &diseases{alphabets: service.New(alphabetSchema, backend), svc: service.New(diseaseSchema, backend)}
	ctx := context.Background()
	if err := lab.svc.EnsureUnique(ctx, "name"); err != nil {
		logger.Warnf("hospital: lab index: %v", err)
	}
	if err := alpha.alphabets.EnsureUnique(ctx, "letter"); err != nil {
		logger.Warnf("hospital: alphabet index: %v", err)
	}
	lab.register(rg)
	alpha.register(rg)

	// The site root also serves reviews.
	rg.POST("", handler.Create(reviews, opts))
	rg.GET("", handler.List(reviews, opts))
	rg.GET("/:id", handler.Get(reviews, opts))
}

// RegisterDoctorReviews mounts doctor reviews under rg (normally /api/doctorreview).
func RegisterDoctorReviews(rg *gin.RouterGroup, backend repository.Backend) {
	handler.RegisterCRUD(rg, "/reviews", service.New(doctorReviewSchema, backend), reviewOptions())
}

// searchJobs filters by case-insensitive substrings of title and city.
func searchJobs(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := resource.Document{}
		if t := strings.TrimSpace(c.Query("title")); t != "" {
			filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(t), Options: "i"}
		}
		if city := strings.TrimSpace(c.Query("city")); city != "" {
			filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(city), Options: "i"}
		}
		list, err := svc.List(c.Request.Context(), filter, resource.FindOptions{})
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "jobs": list})
	}
}
