package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/signalbridge/pkg/cache"
	"github.com/ghuser/signalbridge/pkg/logger"
	domainevents "github.com/ghuser/signalbridge/services/tracking/domain/events"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
	"github.com/ghuser/signalbridge/services/tracking/domain/repositories"
	domainsvcs "github.com/ghuser/signalbridge/services/tracking/domain/services"
	"github.com/ghuser/signalbridge/services/tracking/infrastructure/capi"
)

// Transport delivers a batch of conversion events to the ingestion endpoint.
// Implemented by capi.Client; faked in tests.
type Transport interface {
	SendEvents(ctx context.Context, pixelID, accessToken, testEventCode string, events []*models.ConversionEvent) (*capi.Response, error)
}

// EventPublisher publishes domain events. Implemented by events.EventBus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Result is the typed outcome of one pipeline invocation. The webhook
// adapter logs it and discards it: no pipeline outcome ever changes the
// acknowledgment sent to the triggering webhook.
type Result struct {
	// Delivered is true when the ingestion endpoint accepted the event.
	Delivered bool
	// Skipped is true when no transport call was attempted (no usable connection).
	Skipped bool
	// Reason explains a skip or a failed delivery.
	Reason string
	// EventsReceived and TraceID come from the ingestion acknowledgment.
	EventsReceived int
	TraceID        string
	// DedupKey is the submitted event's deduplication key.
	DedupKey string
}

// PipelineService runs the conversion pipeline for one trigger: resolve the
// shop's connection, build the event, submit it, record the outcome. Each
// invocation is an independent unit of work; the service holds no per-event
// state. Exactly one transport call is made per trigger, with no retry —
// a dropped conversion signal is an accepted loss.
type PipelineService struct {
	repo      repositories.ConnectionRepository
	cache     *pkgcache.ConnectionCache
	transport Transport
	publisher EventPublisher
	log       logger.Logger
}

// NewPipelineService wires the pipeline. cache and publisher may be nil;
// the pipeline then reads Postgres directly and skips stats publication.
func NewPipelineService(
	repo repositories.ConnectionRepository,
	cache *pkgcache.ConnectionCache,
	transport Transport,
	publisher EventPublisher,
	log logger.Logger,
) *PipelineService {
	return &PipelineService{repo: repo, cache: cache, transport: transport, publisher: publisher, log: log}
}

// HandleOrderCreated submits a Purchase event for an order-created trigger.
func (s *PipelineService) HandleOrderCreated(ctx context.Context, shop string, order *models.OrderPayload, client models.ClientContext) (*Result, error) {
	conn, skip := s.resolveConnection(ctx, shop)
	if skip != nil {
		return skip, nil
	}
	event, err := domainsvcs.BuildFromOrder(order, domainsvcs.BuildOptions{Client: client})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, conn, event), nil
}

// HandleCheckoutCreated submits an InitiateCheckout event for a checkout-created trigger.
func (s *PipelineService) HandleCheckoutCreated(ctx context.Context, shop string, checkout *models.CheckoutPayload, client models.ClientContext) (*Result, error) {
	conn, skip := s.resolveConnection(ctx, shop)
	if skip != nil {
		return skip, nil
	}
	event, err := domainsvcs.BuildFromCheckout(checkout, domainsvcs.BuildOptions{Client: client})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, conn, event), nil
}

// HandleCustomerCreated submits a CompleteRegistration event for a customer-created trigger.
func (s *PipelineService) HandleCustomerCreated(ctx context.Context, shop string, customer *models.CustomerPayload, client models.ClientContext) (*Result, error) {
	conn, skip := s.resolveConnection(ctx, shop)
	if skip != nil {
		return skip, nil
	}
	event, err := domainsvcs.BuildFromCustomer(customer, domainsvcs.BuildOptions{Client: client})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, conn, event), nil
}

// HandleBrowse submits a browse-type event (PageView, ViewContent, AddToCart)
// from the storefront beacon.
func (s *PipelineService) HandleBrowse(ctx context.Context, shop string, name models.EventName, beacon *models.BrowsePayload, client models.ClientContext) (*Result, error) {
	conn, skip := s.resolveConnection(ctx, shop)
	if skip != nil {
		return skip, nil
	}
	event, err := domainsvcs.BuildBrowse(name, beacon, domainsvcs.BuildOptions{Client: client})
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, conn, event), nil
}

// resolveConnection loads the shop's connection, cache first. A missing or
// unusable connection yields a skip Result: not an error, just a no-op —
// the shop has not finished (or has revoked) its pixel setup.
func (s *PipelineService) resolveConnection(ctx context.Context, shop string) (*models.Connection, *Result) {
	conn := s.lookupConnection(ctx, shop)
	if conn == nil {
		return nil, &Result{Skipped: true, Reason: "no connection for shop"}
	}
	if !conn.Usable(time.Now()) {
		return nil, &Result{Skipped: true, Reason: "connection not usable"}
	}
	return conn, nil
}

func (s *PipelineService) lookupConnection(ctx context.Context, shop string) *models.Connection {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, shop); err == nil {
			return connectionFromCached(cached)
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "connection cache read failed", "shop", shop, "error", err)
		}
	}

	conn, err := s.repo.GetByShop(ctx, models.ShopDomain(shop))
	if err != nil {
		// Not-found and read errors are both treated as "no connection":
		// the pipeline never blocks or retries on its own account.
		return nil
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), cachedFromConnection(conn))
		}()
	}
	return conn
}

// submit makes the single transport call for the event and reports the
// outcome. Transport failures are logged and folded into the Result; they
// are never returned as errors.
func (s *PipelineService) submit(ctx context.Context, conn *models.Connection, event *models.ConversionEvent) *Result {
	ack, err := s.transport.SendEvents(ctx, conn.PixelID, conn.AccessToken, conn.TestEventCode, []*models.ConversionEvent{event})
	if err != nil {
		s.log.WarnContext(ctx, "conversion delivery failed",
			"shop", conn.Shop.String(),
			"event_name", string(event.EventName),
			"dedup_key", event.EventID,
			"error", err,
		)
		return &Result{Reason: err.Error(), DedupKey: event.EventID}
	}

	s.log.InfoContext(ctx, "conversion delivered",
		"shop", conn.Shop.String(),
		"event_name", string(event.EventName),
		"dedup_key", event.EventID,
		"events_received", ack.EventsReceived,
		"fbtrace_id", ack.FBTraceID,
	)

	s.publishSubmitted(ctx, conn, event, ack)

	return &Result{
		Delivered:      true,
		EventsReceived: ack.EventsReceived,
		TraceID:        ack.FBTraceID,
		DedupKey:       event.EventID,
	}
}

// publishSubmitted emits the advisory conversion.submitted event.
// Best effort: a publish failure is logged, never propagated.
func (s *PipelineService) publishSubmitted(ctx context.Context, conn *models.Connection, event *models.ConversionEvent, ack *capi.Response) {
	if s.publisher == nil {
		return
	}

	evt := domainevents.ConversionSubmittedEvent{
		EventID:        uuid.New(),
		Version:        1,
		Shop:           conn.Shop.String(),
		PixelID:        conn.PixelID,
		EventName:      string(event.EventName),
		DedupKey:       event.EventID,
		EventsReceived: ack.EventsReceived,
		TraceID:        ack.FBTraceID,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.log.WarnContext(ctx, "marshal conversion.submitted failed", "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", evt.EventID.String())
	msg.Metadata.Set("event_version", "1")
	if err := s.publisher.Publish(ctx, domainevents.TopicConversionSubmitted, msg); err != nil {
		s.log.WarnContext(ctx, "publish conversion.submitted failed", "error", err)
	}
}

func connectionFromCached(cached *pkgcache.CachedConnection) *models.Connection {
	return &models.Connection{
		Shop:                models.ShopDomain(cached.Shop),
		PixelID:             cached.PixelID,
		AccessToken:         cached.AccessToken,
		TestEventCode:       cached.TestEventCode,
		CredentialExpiresAt: cached.CredentialExpiresAt,
		Active:              cached.Active,
	}
}

func cachedFromConnection(conn *models.Connection) *pkgcache.CachedConnection {
	return &pkgcache.CachedConnection{
		Shop:                conn.Shop.String(),
		PixelID:             conn.PixelID,
		AccessToken:         conn.AccessToken,
		TestEventCode:       conn.TestEventCode,
		CredentialExpiresAt: conn.CredentialExpiresAt,
		Active:              conn.Active,
	}
}

var _ Transport = (*capi.Client)(nil)
