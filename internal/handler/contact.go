package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zerowaste/connect/internal/model"
	"github.com/zerowaste/connect/internal/queue"
)

// ContactStore persists contact form submissions.
// *repository.ContactRepo implements it.
type ContactStore interface {
	Insert(ctx context.Context, m *model.ContactMessage) error
}

// ContactPublisher announces received messages to the broker so staff
// tooling can pick them up. Nil disables the announcements.
type ContactPublisher interface {
	PublishContactReceived(ctx context.Context, ev queue.ContactReceivedEvent) error
}

// ContactHandler serves the public contact form.
type ContactHandler struct {
	Contacts ContactStore
	Events   ContactPublisher
}

func NewContactHandler(contacts ContactStore, events ContactPublisher) *ContactHandler {
	return &ContactHandler{Contacts: contacts, Events: events}
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit stores a contact message and acknowledges it. Broker delivery
// is best effort; the submission succeeds either way.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m := model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := m.Validate(); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Contacts.Insert(ctx, &m); err != nil {
		return writeError(c, err)
	}

	if h.Events != nil {
		ev := queue.ContactReceivedEvent{
			MessageID:  m.ID,
			Name:       m.Name,
			Email:      m.Email,
			Subject:    m.Subject,
			ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Events.PublishContactReceived(ctx, ev); err != nil {
			log.Printf("contact: publish event failed: %v", err)
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "thanks, we received your message"})
}
