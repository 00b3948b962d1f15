package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/signalbridge/pkg/config"
	"github.com/ghuser/signalbridge/pkg/logger"
	trackingdomain "github.com/ghuser/signalbridge/services/tracking/domain"
	domainevents "github.com/ghuser/signalbridge/services/tracking/domain/events"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
	"github.com/ghuser/signalbridge/services/tracking/infrastructure/capi"
)

type fakeRepo struct {
	conns map[string]*models.Connection
	err   error
}

func (f *fakeRepo) Upsert(_ context.Context, conn *models.Connection) error {
	f.conns[conn.Shop.String()] = conn
	return nil
}

func (f *fakeRepo) GetByShop(_ context.Context, shop models.ShopDomain) (*models.Connection, error) {
	if f.err != nil {
		return nil, f.err
	}
	conn, ok := f.conns[shop.String()]
	if !ok {
		return nil, trackingdomain.ErrConnectionNotFound
	}
	return conn, nil
}

func (f *fakeRepo) Delete(_ context.Context, shop models.ShopDomain) error {
	delete(f.conns, shop.String())
	return nil
}

func (f *fakeRepo) ListExpiring(_ context.Context, _ time.Time) ([]*models.Connection, error) {
	return nil, nil
}

func (f *fakeRepo) Deactivate(_ context.Context, shop models.ShopDomain) error {
	conn, ok := f.conns[shop.String()]
	if !ok {
		return trackingdomain.ErrConnectionNotFound
	}
	conn.Active = false
	return nil
}

type transportCall struct {
	pixelID       string
	accessToken   string
	testEventCode string
	events        []*models.ConversionEvent
}

type fakeTransport struct {
	calls []transportCall
	resp  *capi.Response
	err   error
}

func (f *fakeTransport) SendEvents(_ context.Context, pixelID, accessToken, testEventCode string, events []*models.ConversionEvent) (*capi.Response, error) {
	f.calls = append(f.calls, transportCall{pixelID, accessToken, testEventCode, events})
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakePublisher struct {
	topics []string
	msgs   []*message.Message
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func usableConnection(shop string) *models.Connection {
	return &models.Connection{
		Shop:        models.ShopDomain(shop),
		PixelID:     "987654",
		AccessToken: "tok-secret",
		Active:      true,
	}
}

func testOrder() *models.OrderPayload {
	return &models.OrderPayload{
		ID:         5001,
		Email:      "buyer@example.com",
		TotalPrice: "25.00",
		Currency:   "USD",
		CreatedAt:  "2024-01-01T00:00:00Z",
		LineItems: []models.LineItem{
			{ID: 1, VariantID: 111, Quantity: 2, Price: "10.00"},
		},
	}
}

func TestPipeline_DeliversPurchase(t *testing.T) {
	repo := &fakeRepo{conns: map[string]*models.Connection{
		"demo-store.myshopify.com": usableConnection("demo-store.myshopify.com"),
	}}
	transport := &fakeTransport{resp: &capi.Response{EventsReceived: 1, FBTraceID: "AbZx"}}
	pub := &fakePublisher{}
	svc := NewPipelineService(repo, nil, transport, pub, newTestLogger())

	result, err := svc.HandleOrderCreated(context.Background(), "demo-store.myshopify.com", testOrder(), models.ClientContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Delivered {
		t.Fatalf("expected delivered result, got %+v", result)
	}
	if result.EventsReceived != 1 || result.TraceID != "AbZx" {
		t.Errorf("ack not propagated: %+v", result)
	}
	if result.DedupKey == "" {
		t.Error("expected dedup key in result")
	}

	if len(transport.calls) != 1 {
		t.Fatalf("expected 1 transport call, got %d", len(transport.calls))
	}
	call := transport.calls[0]
	if call.pixelID != "987654" || call.accessToken != "tok-secret" {
		t.Errorf("connection credentials not passed through: %+v", call)
	}
	if len(call.events) != 1 || call.events[0].EventName != models.EventPurchase {
		t.Errorf("expected single Purchase event, got %+v", call.events)
	}

	if len(pub.topics) != 1 || pub.topics[0] != domainevents.TopicConversionSubmitted {
		t.Errorf("expected conversion.submitted publication, got %v", pub.topics)
	}
}

func TestPipeline_TransportFailureIsNotAnError(t *testing.T) {
	repo := &fakeRepo{conns: map[string]*models.Connection{
		"demo-store.myshopify.com": usableConnection("demo-store.myshopify.com"),
	}}
	transport := &fakeTransport{err: errors.New("ingestion rejected batch: status 400")}
	svc := NewPipelineService(repo, nil, transport, nil, newTestLogger())

	result, err := svc.HandleOrderCreated(context.Background(), "demo-store.myshopify.com", testOrder(), models.ClientContext{})
	if err != nil {
		t.Fatalf("transport failure must not surface as error, got %v", err)
	}
	if result.Delivered {
		t.Fatal("expected Delivered=false after transport failure")
	}
	if result.Skipped {
		t.Fatal("a failed delivery is not a skip")
	}
	if !strings.Contains(result.Reason, "400") {
		t.Errorf("expected failure reason to carry detail, got %q", result.Reason)
	}
	if len(transport.calls) != 1 {
		t.Fatalf("expected exactly one attempt (no retry), got %d", len(transport.calls))
	}
}

func TestPipeline_NoConnectionSkipsTransport(t *testing.T) {
	repo := &fakeRepo{conns: map[string]*models.Connection{}}
	transport := &fakeTransport{resp: &capi.Response{EventsReceived: 1}}
	svc := NewPipelineService(repo, nil, transport, nil, newTestLogger())

	result, err := svc.HandleOrderCreated(context.Background(), "demo-store.myshopify.com", testOrder(), models.ClientContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Fatalf("expected skip, got %+v", result)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected zero transport calls, got %d", len(transport.calls))
	}
}

func TestPipeline_EmptyPixelSkipsTransport(t *testing.T) {
	conn := usableConnection("demo-store.myshopify.com")
	conn.PixelID = ""
	repo := &fakeRepo{conns: map[string]*models.Connection{conn.Shop.String(): conn}}
	transport := &fakeTransport{resp: &capi.Response{EventsReceived: 1}}
	svc := NewPipelineService(repo, nil, transport, nil, newTestLogger())

	result, err := svc.HandleOrderCreated(context.Background(), "demo-store.myshopify.com", testOrder(), models.ClientContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Fatalf("expected skip for empty pixel id, got %+v", result)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected zero transport calls, got %d", len(transport.calls))
	}
}

func TestPipeline_InactiveConnectionSkipsTransport(t *testing.T) {
	conn := usableConnection("demo-store.myshopify.com")
	conn.Active = false
	repo := &fakeRepo{conns: map[string]*models.Connection{conn.Shop.String(): conn}}
	transport := &fakeTransport{}
	svc := NewPipelineService(repo, nil, transport, nil, newTestLogger())

	result, _ := svc.HandleOrderCreated(context.Background(), "demo-store.myshopify.com", testOrder(), models.ClientContext{})
	if !result.Skipped || len(transport.calls) != 0 {
		t.Fatalf("expected skip without transport call, got %+v calls=%d", result, len(transport.calls))
	}
}

func TestPipeline_MissingPayload(t *testing.T) {
	repo := &fakeRepo{conns: map[string]*models.Connection{
		"demo-store.myshopify.com": usableConnection("demo-store.myshopify.com"),
	}}
	svc := NewPipelineService(repo, nil, &fakeTransport{}, nil, newTestLogger())

	_, err := svc.HandleOrderCreated(context.Background(), "demo-store.myshopify.com", nil, models.ClientContext{})
	if !errors.Is(err, trackingdomain.ErrMissingPayload) {
		t.Fatalf("expected ErrMissingPayload, got %v", err)
	}
}

func TestPipeline_PublishFailureDoesNotAffectResult(t *testing.T) {
	repo := &fakeRepo{conns: map[string]*models.Connection{
		"demo-store.myshopify.com": usableConnection("demo-store.myshopify.com"),
	}}
	transport := &fakeTransport{resp: &capi.Response{EventsReceived: 1}}
	pub := &fakePublisher{err: errors.New("bus unavailable")}
	svc := NewPipelineService(repo, nil, transport, pub, newTestLogger())

	result, err := svc.HandleOrderCreated(context.Background(), "demo-store.myshopify.com", testOrder(), models.ClientContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Delivered {
		t.Fatalf("publish failure must not fail the delivery, got %+v", result)
	}
}

func TestPipeline_HandleBrowse(t *testing.T) {
	repo := &fakeRepo{conns: map[string]*models.Connection{
		"demo-store.myshopify.com": usableConnection("demo-store.myshopify.com"),
	}}
	transport := &fakeTransport{resp: &capi.Response{EventsReceived: 1}}
	svc := NewPipelineService(repo, nil, transport, nil, newTestLogger())

	client := models.ClientContext{IPAddress: "203.0.113.9", UserAgent: "Mozilla/5.0", SourceURL: "https://demo-store.myshopify.com/products/x"}
	result, err := svc.HandleBrowse(context.Background(), "demo-store.myshopify.com", models.EventViewContent,
		&models.BrowsePayload{ContentIDs: []string{"111"}}, client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Delivered {
		t.Fatalf("expected delivered, got %+v", result)
	}

	event := transport.calls[0].events[0]
	if event.EventName != models.EventViewContent {
		t.Errorf("event name = %s", event.EventName)
	}
	if event.UserData.ClientIPAddress != "203.0.113.9" || event.UserData.ClientUserAgent != "Mozilla/5.0" {
		t.Errorf("client context not passed through: %+v", event.UserData)
	}
	if event.EventSourceURL != client.SourceURL {
		t.Errorf("event source url = %q", event.EventSourceURL)
	}
}

func TestPipeline_CheckoutAndCustomerTriggers(t *testing.T) {
	repo := &fakeRepo{conns: map[string]*models.Connection{
		"demo-store.myshopify.com": usableConnection("demo-store.myshopify.com"),
	}}
	transport := &fakeTransport{resp: &capi.Response{EventsReceived: 1}}
	svc := NewPipelineService(repo, nil, transport, nil, newTestLogger())

	checkout := &models.CheckoutPayload{Token: "tok-abc", TotalPrice: "10.00", Currency: "USD"}
	if result, err := svc.HandleCheckoutCreated(context.Background(), "demo-store.myshopify.com", checkout, models.ClientContext{}); err != nil || !result.Delivered {
		t.Fatalf("checkout trigger: result=%+v err=%v", result, err)
	}

	customer := &models.CustomerPayload{ID: 42, Email: "A@B.com", CreatedAt: "2024-01-01T00:00:00Z"}
	if result, err := svc.HandleCustomerCreated(context.Background(), "demo-store.myshopify.com", customer, models.ClientContext{}); err != nil || !result.Delivered {
		t.Fatalf("customer trigger: result=%+v err=%v", result, err)
	}

	if len(transport.calls) != 2 {
		t.Fatalf("expected 2 transport calls, got %d", len(transport.calls))
	}
	if got := transport.calls[0].events[0].EventName; got != models.EventInitiateCheckout {
		t.Errorf("checkout event name = %s", got)
	}
	if got := transport.calls[1].events[0].EventName; got != models.EventCompleteRegistration {
		t.Errorf("customer event name = %s", got)
	}
}
