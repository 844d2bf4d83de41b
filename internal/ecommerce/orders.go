package ecommerce

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
)

type orderRequest struct {
	Items           []LineItem `json:"items" binding:"required,min=1,dive"`
	Shipping        float64    `json:"shipping" binding:"gte=0"`
	Tax             float64    `json:"tax" binding:"gte=0"`
	PaymentMethodID string     `json:"paymentMethodId" binding:"required"`
}

type orders struct {
	svc     *service.Service
	methods *payments
}

func (o *orders) register(rg *gin.RouterGroup) {
	rg.POST("/orders", o.create)
	rg.GET("/orders", o.list)
	rg.GET("/orders/:id", o.get)
}

func (o *orders) create(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteError(c, orderError(err))
		return
	}
	ctx := c.Request.Context()
	method, err := o.methods.find(ctx, req.PaymentMethodID)
	if errors.Is(err, resource.ErrNotFound) {
		handler.WriteError(c, resource.Invalid("paymentMethodId", "payment method %s not found", req.PaymentMethodID))
		return
	}
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	t := Compute(req.Items, req.Shipping, req.Tax, ProcessingFee(resource.String(method, "type")))
	items := make([]interface{}, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, resource.Document{"name": it.Name, "price": it.Price, "quantity": it.Quantity})
	}
	created, err := o.svc.Create(ctx, resource.Document{
		"id":              uuid.NewString(),
		"items":           items,
		"subtotal":        amount(t.Subtotal),
		"shipping":        amount(t.Shipping),
		"tax":             amount(t.Tax),
		"processingFee":   amount(t.Fee),
		"total":           amount(t.Total),
		"paymentMethodId": req.PaymentMethodID,
	})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, public.Apply(created))
}

// orderError turns binding failures into field errors.
func orderError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &resource.ValidationError{Message: "invalid JSON body: " + err.Error()}
	}
	fe := verrs[0]
	switch fe.StructField() {
	case "Items":
		return resource.Invalid("items", "must be a non-empty array")
	case "Name":
		return resource.Invalid("items", "every item needs a name")
	case "Price":
		return resource.Invalid("items", "price must not be negative")
	case "Quantity":
		return resource.Invalid("items", "quantity must be at least 1")
	case "PaymentMethodID":
		return resource.Invalid("paymentMethodId", "is required")
	}
	field := strings.ToLower(fe.StructField())
	return resource.Invalid(field, "must not be negative")
}

func (o *orders) list(c *gin.Context) {
	list, err := o.svc.List(c.Request.Context(), nil, resource.FindOptions{Projection: public, Sort: "createdAt"})
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (o *orders) get(c *gin.Context) {
	d, err := o.svc.FindOne(c.Request.Context(), resource.Document{"id": c.Param("id")}, public)
	if err != nil {
		handler.WriteNotFound(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, d)
}
