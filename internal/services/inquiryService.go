package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modshop/internal/metrics"
	"modshop/internal/models"
	"modshop/internal/repositories"
)

// InquiryFilter narrows inquiry listings. Service takes precedence over Category.
type InquiryFilter struct {
	Category string
	Service  string
}

func (f InquiryFilter) toBSON() (bson.M, error) {
	if service := strings.TrimSpace(f.Service); service != "" {
		id, err := primitive.ObjectIDFromHex(service)
		if err != nil {
			return nil, invalidInput("service must be a valid id")
		}
		return bson.M{"service": id}, nil
	}
	return fieldFilter("category", f.Category), nil
}

type InquiryService interface {
	CreateInquiry(ctx context.Context, inquiry models.Inquiry) (*models.Inquiry, error)
	GetInquiries(ctx context.Context, filter InquiryFilter) ([]models.Inquiry, error)
	CountInquiries(ctx context.Context, filter InquiryFilter) (int64, error)
	GetInquiryByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error)
	ReplaceInquiry(ctx context.Context, id primitive.ObjectID, inquiry models.Inquiry) (*models.Inquiry, error)
	DeleteInquiry(ctx context.Context, id primitive.ObjectID) error
}

type inquiryService struct {
	repo         repositories.InquiryRepository
	priorityRepo repositories.PriorityServiceRepository
	now          func() time.Time
}

func NewInquiryService(repo repositories.InquiryRepository, priorityRepo repositories.PriorityServiceRepository) InquiryService {
	return &inquiryService{repo: repo, priorityRepo: priorityRepo, now: time.Now}
}

// resolveService copies the title and category of the referenced priority service onto the inquiry.
func (s *inquiryService) resolveService(ctx context.Context, inquiry *models.Inquiry) error {
	ps, err := s.priorityRepo.FindByID(ctx, inquiry.Service)
	if err != nil {
		if isNoDocuments(err) {
			log.Warn().Str("service_id", inquiry.Service.Hex()).Msg("Inquiry references unknown priority service")
			return invalidInput("service does not exist")
		}
		return err
	}
	inquiry.ServiceTitle = ps.ServiceTitle
	if inquiry.Category == "" {
		inquiry.Category = ps.Category
	}
	return nil
}

func (s *inquiryService) CreateInquiry(ctx context.Context, inquiry models.Inquiry) (*models.Inquiry, error) {
	log.Debug().Str("service_id", inquiry.Service.Hex()).Msg("Attempting to create inquiry")
	if err := validateInput(inquiry); err != nil {
		return nil, err
	}
	if err := s.resolveService(ctx, &inquiry); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	inquiry.ID = primitive.NewObjectID()
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now

	created, err := s.repo.Create(ctx, &inquiry)
	if err != nil {
		log.Error().Err(err).Msg("Failed to insert inquiry")
		return nil, err
	}
	metrics.InquiriesCreatedTotal.Inc()
	log.Info().Str("inquiry_id", created.ID.Hex()).Str("service_id", created.Service.Hex()).Msg("Inquiry received")
	return created, nil
}

func (s *inquiryService) GetInquiries(ctx context.Context, filter InquiryFilter) ([]models.Inquiry, error) {
	query, err := filter.toBSON()
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, query)
}

func (s *inquiryService) CountInquiries(ctx context.Context, filter InquiryFilter) (int64, error) {
	query, err := filter.toBSON()
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, query)
}

func (s *inquiryService) GetInquiryByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	return findOrNotFound[models.Inquiry](ctx, s.repo, id, "Inquiry")
}

func (s *inquiryService) ReplaceInquiry(ctx context.Context, id primitive.ObjectID, inquiry models.Inquiry) (*models.Inquiry, error) {
	if err := validateInput(inquiry); err != nil {
		return nil, err
	}
	existing, err := findOrNotFound[models.Inquiry](ctx, s.repo, id, "Inquiry")
	if err != nil {
		return nil, err
	}
	if err := s.resolveService(ctx, &inquiry); err != nil {
		return nil, err
	}

	inquiry.ID = id
	inquiry.CreatedAt = existing.CreatedAt
	inquiry.UpdatedAt = s.now().UTC()
	if err := replaceOrNotFound[models.Inquiry](ctx, s.repo, id, &inquiry, "Inquiry"); err != nil {
		return nil, err
	}
	log.Info().Str("inquiry_id", id.Hex()).Msg("Inquiry replaced")
	return &inquiry, nil
}

func (s *inquiryService) DeleteInquiry(ctx context.Context, id primitive.ObjectID) error {
	if err := deleteOrNotFound[models.Inquiry](ctx, s.repo, id, "Inquiry"); err != nil {
		return err
	}
	log.Info().Str("inquiry_id", id.Hex()).Msg("Inquiry deleted")
	return nil
}

type ContactService interface {
	CreateContact(ctx context.Context, contact models.Contact) (*models.Contact, error)
	GetContacts(ctx context.Context) ([]models.Contact, error)
	CountContacts(ctx context.Context) (int64, error)
	GetContactByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error)
	ReplaceContact(ctx context.Context, id primitive.ObjectID, contact models.Contact) (*models.Contact, error)
	DeleteContact(ctx context.Context, id primitive.ObjectID) error
}

type contactService struct {
	repo repositories.ContactRepository
	now  func() time.Time
}

func NewContactService(repo repositories.ContactRepository) ContactService {
	return &contactService{repo: repo, now: time.Now}
}

func (s *contactService) CreateContact(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	contact.Email = normalizeEmail(contact.Email)
	if err := validateInput(contact); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	created, err := s.repo.Create(ctx, &contact)
	if err != nil {
		log.Error().Err(err).Str("email", contact.Email).Msg("Failed to insert contact message")
		return nil, err
	}
	metrics.ContactsCreatedTotal.Inc()
	log.Info().Str("contact_id", created.ID.Hex()).Str("email", created.Email).Msg("Contact message received")
	return created, nil
}

func (s *contactService) GetContacts(ctx context.Context) ([]models.Contact, error) {
	return s.repo.Find(ctx, bson.M{})
}

func (s *contactService) CountContacts(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, bson.M{})
}

func (s *contactService) GetContactByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	return findOrNotFound[models.Contact](ctx, s.repo, id, "Contact")
}

func (s *contactService) ReplaceContact(ctx context.Context, id primitive.ObjectID, contact models.Contact) (*models.Contact, error) {
	contact.Email = normalizeEmail(contact.Email)
	if err := validateInput(contact); err != nil {
		return nil, err
	}
	existing, err := findOrNotFound[models.Contact](ctx, s.repo, id, "Contact")
	if err != nil {
		return nil, err
	}

	contact.ID = id
	contact.CreatedAt = existing.CreatedAt
	contact.UpdatedAt = s.now().UTC()
	if err := replaceOrNotFound[models.Contact](ctx, s.repo, id, &contact, "Contact"); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *contactService) DeleteContact(ctx context.Context, id primitive.ObjectID) error {
	return deleteOrNotFound[models.Contact](ctx, s.repo, id, "Contact")
}
