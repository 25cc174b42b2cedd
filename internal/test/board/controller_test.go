package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pipeline-board/internal/board"
	"pipeline-board/internal/models"
	"pipeline-board/internal/test/testutil"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func salesSession() models.Session {
	return models.Session{UserID: uuid.New(), Role: models.RoleSales}
}

func newController(t *testing.T, store *testutil.FakeStore, session models.Session, opts ...board.Option) (*board.Controller, *testutil.RecordingNotifier) {
	t.Helper()
	notifier := &testutil.RecordingNotifier{}
	opts = append([]board.Option{
		board.WithNotifier(notifier),
		board.WithClock(func() time.Time { return fixedNow }),
	}, opts...)

	c := board.NewController(store, testutil.NewFakeFeed(), session, opts...)
	require.NoError(t, c.Load(context.Background()))
	return c, notifier
}

func TestLoad_ReplacesCollection(t *testing.T) {
	first := testutil.NewLead("Ann", models.StatusLeads)
	store := testutil.NewFakeStore(first)
	c, _ := newController(t, store, salesSession())

	assert.True(t, c.Loaded())
	require.Len(t, c.Leads(), 1)

	second := testutil.NewLead("Bob", models.StatusMockupDone)
	store.ListFunc = func(int) ([]models.Lead, error) {
		return []models.Lead{second}, nil
	}
	require.NoError(t, c.Load(context.Background()))

	leads := c.Leads()
	require.Len(t, leads, 1)
	assert.Equal(t, second.ID, leads[0].ID)
}

func TestLoad_FailureKeepsPreviousState(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusLeads)
	store := testutil.NewFakeStore(lead)
	c, _ := newController(t, store, salesSession())

	store.ListErr = testutil.ErrUnavailable
	err := c.Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, board.ErrRemote))
	require.Len(t, c.Leads(), 1)
	assert.Equal(t, lead.ID, c.Leads()[0].ID)
}

func TestLoad_ProductionRoleSeesOnlyLateStages(t *testing.T) {
	store := testutil.NewFakeStore(
		testutil.NewLead("Ann", models.StatusLeads),
		testutil.NewLead("Bob", models.StatusProduction),
		testutil.NewLead("Cid", models.StatusDelivered),
		testutil.NewLead("Dee", models.StatusPaymentDone),
	)
	session := models.Session{UserID: uuid.New(), Role: models.RoleProduction}
	c, _ := newController(t, store, session)

	leads := c.Leads()
	require.Len(t, leads, 2)
	for _, lead := range leads {
		assert.Contains(t, []models.Status{models.StatusProduction, models.StatusDelivered}, lead.Status)
	}
}

func TestLeads_ReturnsCopies(t *testing.T) {
	store := testutil.NewFakeStore(testutil.NewLead("Ann", models.StatusLeads))
	c, _ := newController(t, store, salesSession())

	leads := c.Leads()
	leads[0].CustomerName = "changed"
	leads[0].OrderItems[0].Quantity = 99

	fresh := c.Leads()
	assert.Equal(t, "Ann", fresh[0].CustomerName)
	assert.Equal(t, 1, fresh[0].OrderItems[0].Quantity)
}

func TestSubscribe_EveryNotificationReloads(t *testing.T) {
	a := testutil.NewLead("Ann", models.StatusLeads)
	b := testutil.NewLead("Bob", models.StatusPhotosReceived)

	store := testutil.NewFakeStore()
	store.ListFunc = func(call int) ([]models.Lead, error) {
		switch call {
		case 1:
			return nil, nil
		case 2:
			return []models.Lead{a}, nil
		default:
			return []models.Lead{a, b}, nil
		}
	}
	feed := testutil.NewFakeFeed()
	c := board.NewController(store, feed, salesSession(), board.WithNotifier(&testutil.RecordingNotifier{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Subscribe(ctx))
	require.NoError(t, c.Load(ctx))
	assert.Empty(t, c.Leads())

	feed.Send(models.Change{Table: "leads"})
	feed.Send(models.Change{Table: "order_items"})

	assert.Eventually(t, func() bool { return store.ListCalls() == 3 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return len(c.Leads()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestSubscribe_StopsWhenContextDone(t *testing.T) {
	store := testutil.NewFakeStore()
	feed := testutil.NewFakeFeed()
	c := board.NewController(store, feed, salesSession())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Subscribe(ctx))
	assert.Equal(t, 1, feed.Subscribers())

	cancel()
	assert.Eventually(t, func() bool { return feed.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSubscribe_FeedFailure(t *testing.T) {
	feed := testutil.NewFakeFeed()
	feed.Err = testutil.ErrUnavailable
	c := board.NewController(testutil.NewFakeStore(), feed, salesSession())

	err := c.Subscribe(context.Background())
	assert.True(t, errors.Is(err, board.ErrRemote))
}

func TestCreateLead(t *testing.T) {
	store := testutil.NewFakeStore()
	session := salesSession()
	c, notifier := newController(t, store, session)

	lead, err := c.CreateLead(context.Background(), models.CreateLeadRequest{
		CustomerName: "Ann",
		Phone:        "555-0101",
		Items: []models.OrderItemInput{
			{ProductType: "Frame", Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusLeads, lead.Status)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, lead.OrderID)
	assert.Equal(t, session.UserID, *lead.CreatedBy)
	assert.Equal(t, fixedNow, lead.LastStatusChange)
	require.Len(t, lead.OrderItems, 1)
	assert.Equal(t, lead.ID, lead.OrderItems[0].LeadID)

	got, ok := c.Lead(lead.ID)
	require.True(t, ok)
	assert.Equal(t, "Ann", got.CustomerName)
	assert.Contains(t, notifier.Levels(), board.NoticeSuccess)
}

func TestCreateLead_ProductionForbidden(t *testing.T) {
	store := testutil.NewFakeStore()
	c, _ := newController(t, store, models.Session{UserID: uuid.New(), Role: models.RoleProduction})

	_, err := c.CreateLead(context.Background(), models.CreateLeadRequest{CustomerName: "Ann", Phone: "1"})
	assert.ErrorIs(t, err, board.ErrForbidden)
	assert.Empty(t, store.StoredLeads())
}

func TestUpdateFields(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusPaymentDone)
	store := testutil.NewFakeStore(lead)
	c, _ := newController(t, store, salesSession())

	updated, err := c.UpdateFields(context.Background(), lead.ID, models.UpdateLeadRequest{
		PaymentType: testutil.Ptr(models.PaymentPartial),
	})
	require.NoError(t, err)

	require.True(t, updated.HasPaymentType())
	assert.Equal(t, models.PaymentPartial, *updated.PaymentType)
	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, map[string]interface{}{"payment_type": models.PaymentPartial}, updates[0].Fields)
}

func TestUpdateFields_UnknownLead(t *testing.T) {
	c, _ := newController(t, testutil.NewFakeStore(), salesSession())

	_, err := c.UpdateFields(context.Background(), uuid.New(), models.UpdateLeadRequest{Notes: testutil.Ptr("x")})
	assert.ErrorIs(t, err, board.ErrLeadNotFound)
}

func TestUpdateTracking_RolePermissions(t *testing.T) {
	lead := testutil.Paid(testutil.NewLead("Ann", models.StatusProduction))
	req := models.TrackingRequest{CourierName: "DHL", TrackingNumber: "TRK1"}

	sales, _ := newController(t, testutil.NewFakeStore(lead), salesSession())
	_, err := sales.UpdateTracking(context.Background(), lead.ID, req)
	assert.ErrorIs(t, err, board.ErrForbidden)

	store := testutil.NewFakeStore(lead)
	production, _ := newController(t, store, models.Session{UserID: uuid.New(), Role: models.RoleProduction})
	updated, err := production.UpdateTracking(context.Background(), lead.ID, req)
	require.NoError(t, err)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "TRK1", *updated.TrackingNumber)
}
