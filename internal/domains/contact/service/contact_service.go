package service

import (
	"context"
	"fmt"
	"strings"

	"clubsite-backend/internal/domains/contact/model"
	"clubsite-backend/internal/infrastructure/email"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// Repository is satisfied by *repository.PostgresRepository.
type Repository interface {
	Create(ctx context.Context, req model.Request) (model.Contact, error)
	List(ctx context.Context) ([]model.Contact, error)
}

type Service struct {
	repo     Repository
	mailer   email.EmailService
	notifyTo string
}

func NewService(repo Repository, mailer email.EmailService, notifyTo string) *Service {
	return &Service{repo: repo, mailer: mailer, notifyTo: notifyTo}
}

// Submit stores the message and notifies the club. A delivery failure is
// reported after the row is stored, so the message is never lost.
func (s *Service) Submit(ctx context.Context, req model.Request) (model.Contact, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return model.Contact{}, err
	}

	c, err := s.repo.Create(ctx, req)
	if err != nil {
		return model.Contact{}, err
	}

	msg := email.Message{
		To:      []string{s.notifyTo},
		ReplyTo: c.Email,
		Subject: "[Contact] " + c.Subject,
		Body:    notificationBody(c),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return c, fmt.Errorf("%w: %v", model.ErrDeliveryFailed, err)
	}

	logger.Info("Contact message received", map[string]interface{}{
		"contact_id": c.ID.String(),
	})
	return c, nil
}

func (s *Service) List(ctx context.Context, ac auth.Context) ([]model.Contact, error) {
	if err := ac.Require(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Export renders every contact message into a workbook.
func (s *Service) Export(ctx context.Context, ac auth.Context) (*excelize.File, error) {
	contacts, err := s.List(ctx, ac)
	if err != nil {
		return nil, err
	}
	f, err := buildContactsWorkbook(contacts)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

const contactsSheet = "Contacts"

func buildContactsWorkbook(contacts []model.Contact) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", contactsSheet); err != nil {
		return nil, err
	}

	headers := []string{"Received At", "Name", "Email", "Phone", "Subject", "Message"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(contactsSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(contactsSheet, "A1", "F1", headerStyle)
	}

	for i, c := range contacts {
		row := []interface{}{
			c.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			c.Name,
			c.Email,
			deref(c.Phone),
			c.Subject,
			c.Message,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(contactsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(contactsSheet, "A", "A", 20)
	_ = f.SetColWidth(contactsSheet, "B", "E", 28)
	_ = f.SetColWidth(contactsSheet, "F", "F", 80)
	return f, nil
}

func notificationBody(c model.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New message from the club website contact form.\n\n")
	fmt.Fprintf(&b, "Name:    %s\n", c.Name)
	fmt.Fprintf(&b, "Email:   %s\n", c.Email)
	if c.Phone != nil {
		fmt.Fprintf(&b, "Phone:   %s\n", *c.Phone)
	}
	fmt.Fprintf(&b, "Subject: %s\n", c.Subject)
	fmt.Fprintf(&b, "Sent:    %s\n\n", c.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	b.WriteString(c.Message)
	b.WriteString("\n")
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
