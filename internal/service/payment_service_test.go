package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edlawit/travel-booking-api/internal/gateway"
	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- In-memory PaymentRepository with the same conditional-update semantics
// as the Postgres implementation ---

type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[string]*models.Payment)}
}

func (m *memPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payments[p.TxRef] = &cp
	return nil
}

func (m *memPaymentRepo) FindByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[txRef]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPaymentRepo) FindAll(ctx context.Context, bookingID *uint) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Payment
	for _, p := range m.payments {
		if bookingID == nil || p.BookingID == *bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPaymentRepo) UpdateStatusIfPending(ctx context.Context, txRef string, status models.PaymentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[txRef]
	if !ok || p.PaymentStatus != models.PaymentPending {
		return false, nil
	}
	p.PaymentStatus = status
	return true, nil
}

func (m *memPaymentRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

// --- Mock gateway ---

type mockGateway struct {
	mu           sync.Mutex
	initFn       func(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error)
	verifyFn     func(ctx context.Context, txRef string) (*gateway.VerifyResult, error)
	verifyCalled int
}

func (m *mockGateway) Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
	return m.initFn(ctx, req)
}

func (m *mockGateway) Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
	m.mu.Lock()
	m.verifyCalled++
	m.mu.Unlock()
	return m.verifyFn(ctx, txRef)
}

func (m *mockGateway) verifyCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifyCalled
}

// --- Mock dispatcher ---

type mockDispatcher struct {
	mu       sync.Mutex
	enqueued []string
	err      error
}

func (m *mockDispatcher) Enqueue(ctx context.Context, txRef string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, txRef)
	return nil
}

func (m *mockDispatcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.enqueued)
}

// --- Fixtures ---

func bookingRepoWith(booking *models.Booking) *mockBookingRepo {
	return &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			if booking != nil && booking.ID == id {
				return booking, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func sampleBooking() *models.Booking {
	return &models.Booking{
		ID:        1,
		ListingID: 1,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		Status:    models.BookingPending,
	}
}

func paymentInput() InitializePaymentInput {
	return InitializePaymentInput{
		BookingID:   1,
		Amount:      decimal.NewFromInt(150),
		Currency:    "USD",
		Email:       "customer@example.com",
		FirstName:   "Abel",
		LastName:    "Tesfaye",
		PhoneNumber: "+251911000000",
	}
}

func seedPendingPayment(t *testing.T, repo *memPaymentRepo, txRef string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &models.Payment{
		ID:            1,
		BookingID:     1,
		Amount:        decimal.NewFromInt(150),
		Currency:      "USD",
		Email:         "customer@example.com",
		TxRef:         txRef,
		PaymentStatus: models.PaymentPending,
	}))
}

// --- InitializePayment ---

func TestInitializePayment_Success(t *testing.T) {
	repo := newMemPaymentRepo()
	gw := &mockGateway{
		initFn: func(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
			assert.Equal(t, "150", req.Amount.String())
			assert.Equal(t, "USD", req.Currency)
			assert.Equal(t, "customer@example.com", req.Email)
			return &gateway.InitializeResult{TxRef: "abc123", CheckoutURL: "https://pay.example/xyz"}, nil
		},
	}

	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, &mockDispatcher{})
	checkoutURL, err := svc.InitializePayment(context.Background(), paymentInput())

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/xyz", checkoutURL)

	payment, err := repo.FindByTxRef(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.PaymentStatus)
	assert.Equal(t, uint(1), payment.BookingID)
	assert.Equal(t, "customer@example.com", payment.Email)
}

func TestInitializePayment_BookingNotFound(t *testing.T) {
	repo := newMemPaymentRepo()
	gw := &mockGateway{
		initFn: func(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
			t.Fatal("gateway must not be called when the booking is missing")
			return nil, nil
		},
	}

	svc := NewPaymentService(repo, bookingRepoWith(nil), gw, &mockDispatcher{})
	_, err := svc.InitializePayment(context.Background(), paymentInput())

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Equal(t, 0, repo.count())
}

func TestInitializePayment_GatewayRejection_NoRowPersisted(t *testing.T) {
	repo := newMemPaymentRepo()
	gw := &mockGateway{
		initFn: func(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
			return nil, &gateway.InitializationError{ProviderStatus: "failed"}
		},
	}

	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, &mockDispatcher{})
	_, err := svc.InitializePayment(context.Background(), paymentInput())

	var initErr *gateway.InitializationError
	assert.ErrorAs(t, err, &initErr)
	assert.Equal(t, 0, repo.count())
}

func TestInitializePayment_GatewayUnreachable_NoRowPersisted(t *testing.T) {
	repo := newMemPaymentRepo()
	gw := &mockGateway{
		initFn: func(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
			return nil, gateway.ErrUnreachable
		},
	}

	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, &mockDispatcher{})
	_, err := svc.InitializePayment(context.Background(), paymentInput())

	assert.ErrorIs(t, err, gateway.ErrUnreachable)
	assert.Equal(t, 0, repo.count())
}

// --- VerifyPayment ---

func TestVerifyPayment_Success_EnqueuesOnce(t *testing.T) {
	repo := newMemPaymentRepo()
	seedPendingPayment(t, repo, "abc123")

	gw := &mockGateway{
		verifyFn: func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
			return &gateway.VerifyResult{Status: gateway.VerificationSuccess}, nil
		},
	}
	disp := &mockDispatcher{}

	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, disp)
	status, err := svc.VerifyPayment(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, status)
	assert.Equal(t, 1, disp.count())
	assert.Equal(t, []string{"abc123"}, disp.enqueued)

	payment, _ := repo.FindByTxRef(context.Background(), "abc123")
	assert.Equal(t, models.PaymentSuccess, payment.PaymentStatus)
}

func TestVerifyPayment_Idempotent_SecondCallSkipsGateway(t *testing.T) {
	repo := newMemPaymentRepo()
	seedPendingPayment(t, repo, "abc123")

	gw := &mockGateway{
		verifyFn: func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
			return &gateway.VerifyResult{Status: gateway.VerificationSuccess}, nil
		},
	}
	disp := &mockDispatcher{}
	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, disp)

	first, err := svc.VerifyPayment(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, first)

	second, err := svc.VerifyPayment(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, second)

	assert.Equal(t, 1, gw.verifyCalls(), "terminal payment must not hit the gateway again")
	assert.Equal(t, 1, disp.count(), "notification must be enqueued exactly once")
}

func TestVerifyPayment_Failed_Declines_NoNotification(t *testing.T) {
	repo := newMemPaymentRepo()
	seedPendingPayment(t, repo, "abc123")

	gw := &mockGateway{
		verifyFn: func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
			return &gateway.VerifyResult{Status: gateway.VerificationFailed}, nil
		},
	}
	disp := &mockDispatcher{}
	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, disp)

	status, err := svc.VerifyPayment(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentDeclined, status)
	assert.Equal(t, 0, disp.count())

	payment, _ := repo.FindByTxRef(context.Background(), "abc123")
	assert.Equal(t, models.PaymentDeclined, payment.PaymentStatus)
}

func TestVerifyPayment_Pending_NoStateChange(t *testing.T) {
	repo := newMemPaymentRepo()
	seedPendingPayment(t, repo, "abc123")

	gw := &mockGateway{
		verifyFn: func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
			return &gateway.VerifyResult{Status: gateway.VerificationPending}, nil
		},
	}
	disp := &mockDispatcher{}
	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, disp)

	status, err := svc.VerifyPayment(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, status)
	assert.Equal(t, 0, disp.count())

	payment, _ := repo.FindByTxRef(context.Background(), "abc123")
	assert.Equal(t, models.PaymentPending, payment.PaymentStatus)

	// A later callback can still settle it
	gw.verifyFn = func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
		return &gateway.VerifyResult{Status: gateway.VerificationSuccess}, nil
	}
	status, err = svc.VerifyPayment(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, status)
	assert.Equal(t, 1, disp.count())
}

func TestVerifyPayment_UnknownTxRef(t *testing.T) {
	repo := newMemPaymentRepo()
	gw := &mockGateway{
		verifyFn: func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
			t.Fatal("gateway must not be called for an unknown tx_ref")
			return nil, nil
		},
	}

	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, &mockDispatcher{})
	_, err := svc.VerifyPayment(context.Background(), "unknown-ref")

	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestVerifyPayment_GatewayUnreachable(t *testing.T) {
	repo := newMemPaymentRepo()
	seedPendingPayment(t, repo, "abc123")

	gw := &mockGateway{
		verifyFn: func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
			return nil, gateway.ErrUnreachable
		},
	}
	disp := &mockDispatcher{}
	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, disp)

	_, err := svc.VerifyPayment(context.Background(), "abc123")

	assert.ErrorIs(t, err, gateway.ErrUnreachable)
	assert.Equal(t, 0, disp.count())

	payment, _ := repo.FindByTxRef(context.Background(), "abc123")
	assert.Equal(t, models.PaymentPending, payment.PaymentStatus)
}

func TestVerifyPayment_EnqueueFailure_NotSurfaced(t *testing.T) {
	repo := newMemPaymentRepo()
	seedPendingPayment(t, repo, "abc123")

	gw := &mockGateway{
		verifyFn: func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
			return &gateway.VerifyResult{Status: gateway.VerificationSuccess}, nil
		},
	}
	disp := &mockDispatcher{err: errors.New("broker down")}
	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, disp)

	status, err := svc.VerifyPayment(context.Background(), "abc123")

	// Delivery failures belong to the dispatcher's channel, not the HTTP caller
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, status)
}

// Two concurrent verifications of the same pending payment, both told
// "success" by the gateway: the payment ends up success and exactly one
// notification is enqueued.
func TestVerifyPayment_ConcurrentRace_SingleNotification(t *testing.T) {
	repo := newMemPaymentRepo()
	seedPendingPayment(t, repo, "abc123")

	gw := &mockGateway{
		verifyFn: func(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
			return &gateway.VerifyResult{Status: gateway.VerificationSuccess}, nil
		},
	}
	disp := &mockDispatcher{}
	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), gw, disp)

	const callers = 10
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			status, err := svc.VerifyPayment(context.Background(), "abc123")
			assert.NoError(t, err)
			assert.Equal(t, models.PaymentSuccess, status)
		}()
	}
	wg.Wait()

	payment, _ := repo.FindByTxRef(context.Background(), "abc123")
	assert.Equal(t, models.PaymentSuccess, payment.PaymentStatus)
	assert.Equal(t, 1, disp.count(), "exactly one caller may win the transition")
}

// --- GetPayment / ListPayments ---

func TestGetPayment_Success(t *testing.T) {
	repo := newMemPaymentRepo()
	seedPendingPayment(t, repo, "abc123")

	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), &mockGateway{}, &mockDispatcher{})
	payment, err := svc.GetPayment(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "abc123", payment.TxRef)
	assert.Equal(t, uint(1), payment.BookingID)
}

func TestGetPayment_NotFound(t *testing.T) {
	repo := newMemPaymentRepo()

	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), &mockGateway{}, &mockDispatcher{})
	_, err := svc.GetPayment(context.Background(), 42)

	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestListPayments_FilterByBooking(t *testing.T) {
	repo := newMemPaymentRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Payment{
		ID: 1, BookingID: 1, TxRef: "abc123", PaymentStatus: models.PaymentSuccess,
	}))
	require.NoError(t, repo.Create(context.Background(), &models.Payment{
		ID: 2, BookingID: 2, TxRef: "def456", PaymentStatus: models.PaymentPending,
	}))

	svc := NewPaymentService(repo, bookingRepoWith(sampleBooking()), &mockGateway{}, &mockDispatcher{})

	all, err := svc.ListPayments(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bookingID := uint(2)
	filtered, err := svc.ListPayments(context.Background(), &bookingID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "def456", filtered[0].TxRef)
}
