package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"modshop/internal/models"
)

// mockCRUD mocks repositories.CRUDRepository[T]. Create echoes the document back unless the
// expectation returns one or an error.
type mockCRUD[T any] struct {
	mock.Mock
}

func (m *mockCRUD[T]) Create(ctx context.Context, doc *T) (*T, error) {
	args := m.Called(ctx, doc)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if v, ok := args.Get(0).(*T); ok {
		return v, nil
	}
	return doc, nil
}

func (m *mockCRUD[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockCRUD[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockCRUD[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, id, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *mockCRUD[T]) Update(ctx context.Context, id primitive.ObjectID, updateFields bson.M) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, id, updateFields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *mockCRUD[T]) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.DeleteResult), args.Error(1)
}

func (m *mockCRUD[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mockCRUD[models.User]
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockProductRepository struct {
	mockCRUD[models.Product]
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

type MockOrderRepository struct {
	mockCRUD[models.Order]
}

func (m *MockOrderRepository) SetEmailStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) Get(ctx context.Context) (*models.Portfolio, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) PushEntry(ctx context.Context, section string, entry models.PortfolioEntry) error {
	return m.Called(ctx, section, entry).Error(0)
}

func (m *MockPortfolioRepository) ReplaceEntry(ctx context.Context, section string, entry models.PortfolioEntry, expectedVersion *int64) (bool, error) {
	args := m.Called(ctx, section, entry, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *MockPortfolioRepository) PullEntry(ctx context.Context, section string, entryID primitive.ObjectID, expectedVersion *int64) (bool, error) {
	args := m.Called(ctx, section, entryID, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *MockPortfolioRepository) ReplaceSection(ctx context.Context, section string, entries []models.PortfolioEntry, expectedVersion int64) error {
	return m.Called(ctx, section, entries, expectedVersion).Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(to, subject, msg string) error {
	return m.Called(to, subject, msg).Error(0)
}

type MockOrderNotifier struct {
	mock.Mock
}

func (m *MockOrderNotifier) Enqueue(order models.Order) bool {
	return m.Called(order).Bool(0)
}

// fakeOTPRepository keeps OTP records in memory, keyed by email and purpose.
type fakeOTPRepository struct {
	mu      sync.Mutex
	records map[string]*models.OTP
}

func newFakeOTPRepository() *fakeOTPRepository {
	return &fakeOTPRepository{records: map[string]*models.OTP{}}
}

func (f *fakeOTPRepository) Upsert(_ context.Context, otp *models.OTP) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *otp
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	f.records[otp.Email+"/"+otp.Purpose] = &stored
	out := stored
	return &out, nil
}

func (f *fakeOTPRepository) FindByEmail(_ context.Context, email, purpose string) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	otp, ok := f.records[email+"/"+purpose]
	if !ok {
		return nil, nil
	}
	out := *otp
	return &out, nil
}

func (f *fakeOTPRepository) byID(id primitive.ObjectID) *models.OTP {
	for _, otp := range f.records {
		if otp.ID == id {
			return otp
		}
	}
	return nil
}

func (f *fakeOTPRepository) IncrementAttempts(_ context.Context, otpID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if otp := f.byID(otpID); otp != nil {
		otp.Attempts++
	}
	return nil
}

func (f *fakeOTPRepository) MarkVerified(_ context.Context, otpID primitive.ObjectID, verifiedAt, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if otp := f.byID(otpID); otp != nil {
		otp.Verified = true
		otp.VerifiedAt = &verifiedAt
		otp.ExpiresAt = expiresAt
	}
	return nil
}

func (f *fakeOTPRepository) DeleteByEmail(_ context.Context, email, purpose string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, email+"/"+purpose)
	return nil
}
