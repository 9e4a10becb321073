package repositories

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"modshop/internal/database"
	"modshop/internal/models"
)

var testDB database.Service

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not start mongodb container")
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not read mongodb connection string")
	}

	testDB, err = database.New(ctx, uri, "modshop_repositories_test")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to mongodb container")
	}
	if err := testDB.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Could not create indexes")
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	if err := container.Terminate(ctx); err != nil {
		log.Error().Err(err).Msg("Could not teardown mongodb container")
	}
	os.Exit(code)
}

func TestUserRepository(t *testing.T) {
	userRepo := NewUserRepository(testDB)
	ctx := context.Background()

	t.Run("Create and Get User", func(t *testing.T) {
		user := &models.User{
			ID:       primitive.NewObjectID(),
			Name:     "testuser",
			Email:    "test@example.com",
			Password: "password",
		}

		createdUser, err := userRepo.Create(ctx, user)
		require.NoError(t, err)
		assert.NotNil(t, createdUser)

		foundUser, err := userRepo.FindByEmail(ctx, "test@example.com")
		require.NoError(t, err)
		assert.Equal(t, createdUser.ID, foundUser.ID)

		_, err = userRepo.Create(ctx, &models.User{ID: primitive.NewObjectID(), Email: "test@example.com"})
		assert.True(t, mongo.IsDuplicateKeyError(err), "expected duplicate key error, got %v", err)

		_, err = userRepo.Delete(ctx, createdUser.ID)
		assert.NoError(t, err)

		_, err = userRepo.FindByID(ctx, createdUser.ID)
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}

func TestProductCountTracksCreatesAndDeletes(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()
	_, err := testDB.Database().Collection(database.ProductsCollection).DeleteMany(ctx, bson.M{})
	require.NoError(t, err)

	var ids []primitive.ObjectID
	for i := 0; i < 5; i++ {
		p := &models.Product{ID: primitive.NewObjectID(), Name: "Exhaust", Category: "car", CreatedAt: time.Now()}
		_, err := repo.Create(ctx, p)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	for _, id := range ids[:2] {
		_, err := repo.Delete(ctx, id)
		require.NoError(t, err)
	}

	count, err := repo.Count(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	existing, err := repo.FindByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, existing, 3)
}

func TestOrderCountByStatus(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	for _, status := range []string{models.OrderStatusPending, models.OrderStatusPending, models.OrderStatusShipped} {
		_, err := repo.Create(ctx, &models.Order{ID: primitive.NewObjectID(), Status: status, EmailStatus: models.EmailStatusPending})
		require.NoError(t, err)
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.OrderStatusPending])
	assert.Equal(t, int64(1), counts[models.OrderStatusShipped])
}

func TestOTPUpsertKeepsOneRecordPerEmail(t *testing.T) {
	repo := NewOTPRepository(testDB)
	ctx := context.Background()

	for _, code := range []string{"111111", "222222"} {
		_, err := repo.Upsert(ctx, &models.OTP{Email: "otp@example.com", OTPCode: code, Purpose: "registration", ExpiresAt: time.Now().Add(time.Minute)})
		require.NoError(t, err)
	}

	otp, err := repo.FindByEmail(ctx, "otp@example.com", "registration")
	require.NoError(t, err)
	require.NotNil(t, otp)
	assert.Equal(t, "222222", otp.OTPCode)

	require.NoError(t, repo.DeleteByEmail(ctx, "otp@example.com", "registration"))
	otp, err = repo.FindByEmail(ctx, "otp@example.com", "registration")
	require.NoError(t, err)
	assert.Nil(t, otp)
}
