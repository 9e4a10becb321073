package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modshop/internal/metrics"
	"modshop/internal/models"
	"modshop/internal/repositories"
)

// portfolioWriteRetries bounds the read-modify-write loop for index-addressed edits.
const portfolioWriteRetries = 3

// PortfolioService edits the sections of the single portfolio document. Entries are
// addressed by ref: a 24-hex entry id or a zero-based position in the section.
type PortfolioService interface {
	GetPortfolio(ctx context.Context) (*models.Portfolio, error)
	AddEntry(ctx context.Context, section string, entry models.PortfolioEntry) (*models.PortfolioEntry, error)
	UpdateEntry(ctx context.Context, section, ref string, entry models.PortfolioEntry, expectedVersion *int64) (*models.PortfolioEntry, error)
	DeleteEntry(ctx context.Context, section, ref string, expectedVersion *int64) error
}

type portfolioService struct {
	repo repositories.PortfolioRepository
	now  func() time.Time
}

func NewPortfolioService(repo repositories.PortfolioRepository) PortfolioService {
	return &portfolioService{repo: repo, now: time.Now}
}

// entryRef is a parsed ref. Exactly one of id and index is meaningful.
type entryRef struct {
	id    primitive.ObjectID
	index int
	byID  bool
}

func parseEntryRef(ref string) (entryRef, error) {
	ref = strings.TrimSpace(ref)
	if len(ref) == 24 {
		if id, err := primitive.ObjectIDFromHex(ref); err == nil {
			return entryRef{id: id, byID: true}, nil
		}
	}
	index, err := strconv.Atoi(ref)
	if err != nil || index < 0 {
		return entryRef{}, invalidInput("entry reference must be an entry id or a non-negative index")
	}
	return entryRef{index: index}, nil
}

func checkSection(section string) error {
	if !models.IsPortfolioSection(section) {
		return notFound("Unknown portfolio section %q", section)
	}
	return nil
}

func validatePortfolioEntry(section string, entry models.PortfolioEntry) error {
	if err := validateInput(entry); err != nil {
		return err
	}
	if section == models.SectionReviews {
		switch {
		case strings.TrimSpace(entry.Name) == "":
			return invalidInput("name is required")
		case strings.TrimSpace(entry.Comment) == "":
			return invalidInput("comment is required")
		case entry.Rating < 1 || entry.Rating > 5:
			return invalidInput("rating must be between 1 and 5")
		}
		return nil
	}
	if strings.TrimSpace(entry.Title) == "" {
		return invalidInput("title is required")
	}
	return nil
}

// removeEntryAt returns a copy of entries without position i; later entries shift down.
func removeEntryAt(entries []models.PortfolioEntry, i int) ([]models.PortfolioEntry, bool) {
	if i < 0 || i >= len(entries) {
		return nil, false
	}
	out := make([]models.PortfolioEntry, 0, len(entries)-1)
	out = append(out, entries[:i]...)
	return append(out, entries[i+1:]...), true
}

// replaceEntryAt returns a copy of entries with position i overwritten. The replaced entry
// keeps its id and creation time.
func replaceEntryAt(entries []models.PortfolioEntry, i int, entry models.PortfolioEntry) ([]models.PortfolioEntry, models.PortfolioEntry, bool) {
	if i < 0 || i >= len(entries) {
		return nil, entry, false
	}
	entry.ID = entries[i].ID
	entry.CreatedAt = entries[i].CreatedAt
	out := make([]models.PortfolioEntry, len(entries))
	copy(out, entries)
	out[i] = entry
	return out, entry, true
}

func findEntry(entries []models.PortfolioEntry, id primitive.ObjectID) (models.PortfolioEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.PortfolioEntry{}, false
}

func (s *portfolioService) GetPortfolio(ctx context.Context) (*models.Portfolio, error) {
	portfolio, err := s.repo.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load portfolio")
		return nil, err
	}
	return portfolio, nil
}

func (s *portfolioService) AddEntry(ctx context.Context, section string, entry models.PortfolioEntry) (*models.PortfolioEntry, error) {
	if err := checkSection(section); err != nil {
		return nil, err
	}
	if err := validatePortfolioEntry(section, entry); err != nil {
		return nil, err
	}

	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = s.now().UTC()
	if err := s.repo.PushEntry(ctx, section, entry); err != nil {
		log.Error().Err(err).Str("section", section).Msg("Failed to add portfolio entry")
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues("portfolio", "create").Inc()
	log.Info().Str("section", section).Str("entry_id", entry.ID.Hex()).Msg("Portfolio entry added")
	return &entry, nil
}

func (s *portfolioService) UpdateEntry(ctx context.Context, section, ref string, entry models.PortfolioEntry, expectedVersion *int64) (*models.PortfolioEntry, error) {
	if err := checkSection(section); err != nil {
		return nil, err
	}
	target, err := parseEntryRef(ref)
	if err != nil {
		return nil, err
	}
	if err := validatePortfolioEntry(section, entry); err != nil {
		return nil, err
	}

	var updated models.PortfolioEntry
	if target.byID {
		updated, err = s.updateByID(ctx, section, target.id, entry, expectedVersion)
	} else {
		err = s.editAt(ctx, section, target.index, expectedVersion, func(entries []models.PortfolioEntry) ([]models.PortfolioEntry, bool) {
			out, replaced, ok := replaceEntryAt(entries, target.index, entry)
			updated = replaced
			return out, ok
		})
	}
	if err != nil {
		return nil, err
	}

	metrics.CatalogWritesTotal.WithLabelValues("portfolio", "replace").Inc()
	log.Info().Str("section", section).Str("entry_id", updated.ID.Hex()).Msg("Portfolio entry updated")
	return &updated, nil
}

func (s *portfolioService) updateByID(ctx context.Context, section string, id primitive.ObjectID, entry models.PortfolioEntry, expectedVersion *int64) (models.PortfolioEntry, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return entry, err
	}
	if expectedVersion != nil && current.Version != *expectedVersion {
		return entry, conflict("Portfolio has changed, reload and retry")
	}
	existing, ok := findEntry(current.Section(section), id)
	if !ok {
		return entry, notFound("Portfolio entry not found")
	}

	entry.ID = id
	entry.CreatedAt = existing.CreatedAt
	matched, err := s.repo.ReplaceEntry(ctx, section, entry, expectedVersion)
	if errors.Is(err, repositories.ErrVersionConflict) {
		return entry, conflict("Portfolio has changed, reload and retry")
	}
	if err != nil {
		return entry, err
	}
	if !matched {
		return entry, notFound("Portfolio entry not found")
	}
	return entry, nil
}

func (s *portfolioService) DeleteEntry(ctx context.Context, section, ref string, expectedVersion *int64) error {
	if err := checkSection(section); err != nil {
		return err
	}
	target, err := parseEntryRef(ref)
	if err != nil {
		return err
	}

	if target.byID {
		matched, err := s.repo.PullEntry(ctx, section, target.id, expectedVersion)
		if errors.Is(err, repositories.ErrVersionConflict) {
			return conflict("Portfolio has changed, reload and retry")
		}
		if err != nil {
			return err
		}
		if !matched {
			return notFound("Portfolio entry not found")
		}
	} else {
		err = s.editAt(ctx, section, target.index, expectedVersion, func(entries []models.PortfolioEntry) ([]models.PortfolioEntry, bool) {
			return removeEntryAt(entries, target.index)
		})
		if err != nil {
			return err
		}
	}

	metrics.CatalogWritesTotal.WithLabelValues("portfolio", "delete").Inc()
	log.Info().Str("section", section).Str("ref", ref).Msg("Portfolio entry removed")
	return nil
}

// editAt applies edit to the section and writes it back only if the document version is
// unchanged. Without an expected version, lost races are retried on a fresh read.
func (s *portfolioService) editAt(ctx context.Context, section string, index int, expectedVersion *int64, edit func([]models.PortfolioEntry) ([]models.PortfolioEntry, bool)) error {
	for attempt := 1; attempt <= portfolioWriteRetries; attempt++ {
		current, err := s.repo.Get(ctx)
		if err != nil {
			return err
		}
		if expectedVersion != nil && current.Version != *expectedVersion {
			return conflict("Portfolio has changed, reload and retry")
		}

		entries, ok := edit(current.Section(section))
		if !ok {
			log.Warn().Str("section", section).Int("index", index).Msg("Portfolio index out of range")
			return notFound("Portfolio entry not found")
		}

		err = s.repo.ReplaceSection(ctx, section, entries, current.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return err
		}
		if expectedVersion != nil {
			return conflict("Portfolio has changed, reload and retry")
		}
		log.Debug().Str("section", section).Int("attempt", attempt).Msg("Portfolio write lost a race, retrying")
	}
	return conflict("Portfolio is being modified concurrently, please retry")
}
