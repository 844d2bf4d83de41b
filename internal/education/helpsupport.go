package education

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HelpDesk tracks student support tickets and the replies on them.
type HelpDesk struct {
	svc *service.Service
}

// RegisterHelpSupport mounts tickets under rg (normally /api/helpsupport).
func RegisterHelpSupport(rg *gin.RouterGroup, backend repository.Backend) {
	h := &HelpDesk{svc: service.New(ticketSchema, backend)}
	rg.POST("", h.create)
	rg.GET("", handler.List(h.svc, handler.Options{Sort: "createdAt", Desc: true}))
	rg.GET("/:ticketId", handler.Get(h.svc, handler.Options{Label: "Ticket"}))
	rg.PATCH("/:ticketId/status", h.updateStatus)
	rg.POST("/:ticketId/responses", h.respond)
}

func checkStudent(body resource.Document) error {
	student := resource.Map(body, "student")
	if student == nil {
		return nil
	}
	for _, f := range studentFields {
		if strings.TrimSpace(resource.String(student, f.key)) == "" {
			return resource.Invalid("student."+f.key, "%s is required", f.label)
		}
	}
	return nil
}

func (h *HelpDesk) create(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if err := checkStudent(body); err != nil {
		handler.WriteError(c, err)
		return
	}
	body["responses"] = []interface{}{}
	ticket, err := h.svc.Create(c.Request.Context(), body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Ticket created successfully", "ticket": ticket})
}

func (h *HelpDesk) updateStatus(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	status := resource.String(body, "status")
	if status != "" && !contains(TicketStatuses, status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	patch := resource.Truthy(resource.Document{"status": status, "assignedTo": resource.String(body, "assignedTo")})
	ticket, err := h.svc.Update(c.Request.Context(), c.Param("ticketId"), patch)
	if err != nil {
		handler.WriteNotFound(c, err, "Ticket not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket status updated", "ticket": ticket})
}

func (h *HelpDesk) respond(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	message := strings.TrimSpace(resource.String(body, "message"))
	sender := resource.String(body, "sender")
	senderName := strings.TrimSpace(resource.String(body, "senderName"))
	if message == "" || sender == "" || senderName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message, sender, and senderName are required"})
		return
	}
	if !contains(Senders, sender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sender"})
		return
	}
	oid, err := resource.ParseID(c.Param("ticketId"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	reply := resource.Document{
		"id":         primitive.NewObjectID().Hex(),
		"message":    message,
		"sender":     sender,
		"senderName": senderName,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := h.svc.Push(ctx, oid, "responses", reply); err != nil {
		handler.WriteNotFound(c, err, "Ticket not found")
		return
	}
	// stamps updatedAt
	ticket, err := h.svc.UpdateByID(ctx, oid, resource.Document{})
	if err != nil {
		handler.WriteNotFound(c, err, "Ticket not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Response added successfully", "ticket": ticket})
}
