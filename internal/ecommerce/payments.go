package ecommerce

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
)

var validate = validator.New()

type card struct {
	Number string `validate:"required,numeric,min=12,max=19"`
	Expiry string `validate:"required,datetime=01/06"`
	CVV    string `validate:"required,numeric,min=3,max=4"`
	Holder string `validate:"required"`
}

var cardErrors = map[string][2]string{
	"Number": {"cardNumber", "must be 12 to 19 digits"},
	"Expiry": {"expiryDate", "must be in MM/YY format"},
	"CVV":    {"cvv", "must be 3 or 4 digits"},
	"Holder": {"cardholderName", "is required for card payments"},
}

// checkCard enforces the card fields a CreditDebitCard method needs. With
// full unset only expiry and holder are checked, since the stored number is
// masked and the cvv is never stored.
func checkCard(d resource.Document, full bool) error {
	if resource.String(d, "type") != CreditDebitCard {
		return nil
	}
	cd := card{
		Number: strings.ReplaceAll(resource.String(d, "cardNumber"), " ", ""),
		Expiry: resource.String(d, "expiryDate"),
		CVV:    resource.String(d, "cvv"),
		Holder: strings.TrimSpace(resource.String(d, "cardholderName")),
	}
	var err error
	if full {
		err = validate.Struct(cd)
	} else {
		err = validate.StructPartial(cd, "Expiry", "Holder")
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		e := cardErrors[verrs[0].StructField()]
		return &resource.ValidationError{Field: e[0], Message: e[1]}
	}
	return err
}

// redact strips card data down to what may be persisted: the number masked
// to its last four digits. The cvv is dropped.
func redact(d resource.Document) resource.Document {
	delete(d, "cvv")
	n, ok := d["cardNumber"].(string)
	if !ok {
		return d
	}
	n = strings.ReplaceAll(n, " ", "")
	keep := 4
	if len(n) < keep {
		keep = len(n)
	}
	d["cardNumber"] = strings.Repeat("*", len(n)-keep) + n[len(n)-keep:]
	d["cardLast4"] = n[len(n)-keep:]
	return d
}

type payments struct {
	svc *service.Service
}

func (p *payments) register(rg *gin.RouterGroup) {
	rg.POST("/payment-methods", p.create)
	rg.GET("/payment-methods", p.list)
	rg.PUT("/payment-methods/:id", p.update)
	rg.DELETE("/payment-methods/:id", p.remove)
}

func (p *payments) find(ctx context.Context, id string) (resource.Document, error) {
	return p.svc.FindOne(ctx, resource.Document{"id": id}, public)
}

func (p *payments) create(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if err := checkCard(body, true); err != nil {
		handler.WriteError(c, err)
		return
	}
	redact(body)
	body["id"] = uuid.NewString()
	body["processingFee"] = amount(ProcessingFee(resource.String(body, "type")))
	created, err := p.svc.Create(c.Request.Context(), body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, public.Apply(created))
}

func (p *payments) list(c *gin.Context) {
	list, err := p.svc.List(c.Request.Context(), nil, resource.FindOptions{Projection: public, Sort: "createdAt"})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// update merges the non-empty fields and recomputes the fee from the
// resulting type.
func (p *payments) update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	cur, err := p.find(ctx, id)
	if err != nil {
		handler.WriteNotFound(c, err, "Payment method not found")
		return
	}
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	patch := resource.Truthy(body)
	delete(patch, "id")
	merged := resource.Clone(cur)
	for k, v := range patch {
		merged[k] = v
	}
	// a new card number, or a switch to card payment, needs the full card again
	_, number := patch["cardNumber"]
	_, cvv := patch["cvv"]
	full := number || cvv || resource.String(cur, "type") != CreditDebitCard
	if err := checkCard(merged, full); err != nil {
		handler.WriteError(c, err)
		return
	}
	redact(patch)
	patch["processingFee"] = amount(ProcessingFee(resource.String(merged, "type")))
	updated, err := p.svc.UpdateWhere(ctx, resource.Document{"id": id}, patch)
	if err != nil {
		handler.WriteNotFound(c, err, "Payment method not found")
		return
	}
	c.JSON(http.StatusOK, public.Apply(updated))
}

func (p *payments) remove(c *gin.Context) {
	n, err := p.svc.DeleteWhere(c.Request.Context(), resource.Document{"id": c.Param("id")})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Register mounts payment methods and orders under rg (normally /api/ecommerce).
func Register(rg *gin.RouterGroup, backend repository.Backend) {
	p := &payments{svc: service.New(paymentMethodSchema, backend)}
	o := &orders{svc: service.New(orderSchema, backend), methods: p}
	ctx := context.Background()
	for _, svc := range []*service.Service{p.svc, o.svc} {
		if err := svc.EnsureUnique(ctx, "id"); err != nil {
			logger.Warnf("ecommerce: %s index: %v", svc.Schema().Collection, err)
		}
	}
	p.register(rg)
	o.register(rg)
}
