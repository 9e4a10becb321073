package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modshop/internal/database"
	"modshop/internal/models"
)

// PortfolioRepository edits the single portfolio document. Entry-level writes by id are
// single atomic updates; ReplaceSection is the version-checked path for index edits.
// ReplaceEntry and PullEntry take an optional expected version that becomes part of the
// update filter.
type PortfolioRepository interface {
	Get(ctx context.Context) (*models.Portfolio, error)
	PushEntry(ctx context.Context, section string, entry models.PortfolioEntry) error
	ReplaceEntry(ctx context.Context, section string, entry models.PortfolioEntry, expectedVersion *int64) (bool, error)
	PullEntry(ctx context.Context, section string, entryID primitive.ObjectID, expectedVersion *int64) (bool, error)
	ReplaceSection(ctx context.Context, section string, entries []models.PortfolioEntry, expectedVersion int64) error
}

type portfolioRepository struct {
	*mongoRepository[models.Portfolio]
}

func NewPortfolioRepository(db database.Service) PortfolioRepository {
	return &portfolioRepository{newMongoRepository[models.Portfolio](db, database.PortfolioCollection, "portfolio")}
}

// portfolioID is the fixed _id of the single portfolio document. Addressing it by id keeps
// the first-access upsert from creating duplicates under concurrent requests.
var portfolioID = primitive.ObjectID{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}

func emptyPortfolioFields() bson.M {
	fields := bson.M{"version": int64(0)}
	for _, section := range models.PortfolioSections {
		fields[section] = bson.A{}
	}
	return fields
}

// Get returns the portfolio document, creating an empty one on first access.
func (r *portfolioRepository) Get(ctx context.Context) (_ *models.Portfolio, err error) {
	defer r.observe("get", &err)()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": emptyPortfolioFields()}

	var portfolio models.Portfolio
	if err = r.coll().FindOneAndUpdate(ctx, bson.M{"_id": portfolioID}, update, opts).Decode(&portfolio); err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	return &portfolio, nil
}

func (r *portfolioRepository) PushEntry(ctx context.Context, section string, entry models.PortfolioEntry) (err error) {
	defer r.observe("pushEntry", &err)()

	if _, err = r.Get(ctx); err != nil {
		return err
	}
	update := bson.M{
		"$push": bson.M{section: entry},
		"$inc":  bson.M{"version": 1},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	if _, err = r.coll().UpdateOne(ctx, bson.M{"_id": portfolioID}, update); err != nil {
		return fmt.Errorf("failed to add portfolio %s entry: %w", section, err)
	}
	return nil
}

func entryFilter(section string, entryID primitive.ObjectID) bson.M {
	return bson.M{"_id": portfolioID, section + "._id": entryID}
}

// entryWrite applies update to the document holding entryID. A miss under an expected
// version is reported as ErrVersionConflict when the entry is still there.
func (r *portfolioRepository) entryWrite(ctx context.Context, section string, entryID primitive.ObjectID, expectedVersion *int64, update bson.M) (bool, error) {
	filter := entryFilter(section, entryID)
	if expectedVersion != nil {
		filter["version"] = *expectedVersion
	}

	result, err := r.coll().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if result.MatchedCount > 0 {
		return true, nil
	}
	if expectedVersion == nil {
		return false, nil
	}

	n, err := r.coll().CountDocuments(ctx, entryFilter(section, entryID))
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, ErrVersionConflict
	}
	return false, nil
}

// ReplaceEntry overwrites the entry with entry.ID in place. It reports false when no
// entry with that id exists in the section.
func (r *portfolioRepository) ReplaceEntry(ctx context.Context, section string, entry models.PortfolioEntry, expectedVersion *int64) (_ bool, err error) {
	defer r.observe("replaceEntry", &err)()

	update := bson.M{
		"$set": bson.M{section + ".$": entry, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	ok, err := r.entryWrite(ctx, section, entry.ID, expectedVersion, update)
	if err != nil && !errors.Is(err, ErrVersionConflict) {
		return false, fmt.Errorf("failed to update portfolio %s entry: %w", section, err)
	}
	return ok, err
}

func (r *portfolioRepository) PullEntry(ctx context.Context, section string, entryID primitive.ObjectID, expectedVersion *int64) (_ bool, err error) {
	defer r.observe("pullEntry", &err)()

	update := bson.M{
		"$pull": bson.M{section: bson.M{"_id": entryID}},
		"$inc":  bson.M{"version": 1},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	ok, err := r.entryWrite(ctx, section, entryID, expectedVersion, update)
	if err != nil && !errors.Is(err, ErrVersionConflict) {
		return false, fmt.Errorf("failed to remove portfolio %s entry: %w", section, err)
	}
	return ok, err
}

// ReplaceSection writes entries only if the document is still at expectedVersion.
func (r *portfolioRepository) ReplaceSection(ctx context.Context, section string, entries []models.PortfolioEntry, expectedVersion int64) (err error) {
	defer r.observe("replaceSection", &err)()

	if entries == nil {
		entries = []models.PortfolioEntry{}
	}
	filter := bson.M{"_id": portfolioID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{section: entries, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	result, err := r.coll().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to write portfolio %s: %w", section, err)
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}
