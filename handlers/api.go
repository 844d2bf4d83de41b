package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/bookstore"
	"github.com/varshinivarma16/booksbackend/internal/clothing"
	"github.com/varshinivarma16/booksbackend/internal/contact"
	"github.com/varshinivarma16/booksbackend/internal/ecommerce"
	"github.com/varshinivarma16/booksbackend/internal/education"
	"github.com/varshinivarma16/booksbackend/internal/fitness"
	"github.com/varshinivarma16/booksbackend/internal/hospital"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/stocks"
	"github.com/varshinivarma16/booksbackend/internal/storage"
)

// Verticals carries what the feature routers need. Store and Mailer may be
// nil; the routes that depend on them then answer 503.
type Verticals struct {
	Backend repository.Backend
	Store   storage.ObjectStore
	Mailer  contact.Mailer
	Mailbox string
}

// RegisterVerticals mounts every feature router under /api.
func RegisterVerticals(r gin.IRouter, v Verticals) {
	api := r.Group("/api")
	stocks.Register(api.Group("/stocks"), v.Backend)
	bookstore.Register(api.Group("/bookstore"), v.Backend)

	hospital.Register(api.Group("/hospital"), v.Backend)
	hospital.RegisterDoctorReviews(api.Group("/doctorreview"), v.Backend)

	education.RegisterSchedules(api.Group("/schedule"), v.Backend)
	education.RegisterDocuments(api.Group("/document"), v.Backend, v.Store)
	education.RegisterExams(api.Group("/education"), v.Backend)
	education.RegisterHelpSupport(api.Group("/helpsupport"), v.Backend)

	clothing.Register(api.Group("/clothing"), v.Backend)
	ecommerce.Register(api.Group("/ecommerce"), v.Backend)
	fitness.Register(api.Group("/fitness"), v.Backend)
	contact.NewHandler(v.Mailer, v.Mailbox).Register(api.Group("/contact"))
}
