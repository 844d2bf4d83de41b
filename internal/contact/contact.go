package contact

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
)

type request struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

var (
	validate = validator.New()
	strict   = bluemonday.StrictPolicy()
	ugc      = bluemonday.UGCPolicy()
)

// Handler accepts contact form posts and mails them to a fixed mailbox.
type Handler struct {
	mailer  Mailer
	mailbox string
}

// NewHandler builds the handler. A nil mailer makes every post answer 503.
func NewHandler(mailer Mailer, mailbox string) *Handler {
	return &Handler{mailer: mailer, mailbox: mailbox}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.send)
}

// Render builds the mail body. message is expected to be sanitized HTML.
func Render(name, email, message string) string {
	return fmt.Sprintf(`<h3>Contact Form Message</h3>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Message:</strong><br>%s</p>
`, html.EscapeString(name), html.EscapeString(email), strings.ReplaceAll(message, "\n", "<br>"))
}

func (h *Handler) send(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}
	req.Name = strings.TrimSpace(html.UnescapeString(strict.Sanitize(req.Name)))
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(ugc.Sanitize(req.Message))
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, a valid email and message are required"})
		return
	}
	if h.mailer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Mail is not configured"})
		return
	}
	msg := Message{
		FromName: req.Name,
		To:       h.mailbox,
		Subject:  "New message from " + req.Name,
		HTML:     Render(req.Name, req.Email, req.Message),
	}
	if err := h.mailer.Send(c.Request.Context(), msg); err != nil {
		logger.Errorf("contact: send mail: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send email"})
		return
	}
	logger.Infof("contact: message from %s delivered", req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
}
