// Package sales runs the create, read and update workflows over the domain
// model, the repository and the event publisher.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salesdesk/m/domain"
	"salesdesk/m/internal/events"
)

// Store is what the workflows need from persistence.
type Store interface {
	domain.Repository
	domain.Transactor
}

// Service handles sale commands.
type Service struct {
	store     Store
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for publish failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the clock stamped on notifications.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service over store that publishes through publisher.
func NewService(store Store, publisher events.Publisher, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: publisher,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the command, stores the new sale with its items and
// publishes sale_created.
func (s *Service) Create(ctx context.Context, cmd CreateSaleCommand) (*domain.Sale, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items := make([]*domain.SaleItem, 0, len(cmd.Items))
	for i, in := range cmd.Items {
		item, err := domain.NewSaleItem(in.ProductID, in.Quantity, in.UnitPrice, false)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}

	sale := domain.NewSale(cmd.CustomerID, cmd.BranchID, false)
	if err := sale.AttachItems(items); err != nil {
		return nil, err
	}
	if err := sale.Validate().Err(); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(repo domain.Repository) error {
		if err := repo.CreateSale(ctx, sale); err != nil {
			return err
		}
		return repo.CreateItems(ctx, sale.Items)
	})
	if err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	s.publish(ctx, sale.ID, events.Envelope{
		Topic:   events.TopicSaleCreated,
		Payload: events.SaleCreated{Sale: events.SnapshotSale(sale), OccurredAt: s.now().UTC()},
	})

	return sale, nil
}

// GetByID returns the sale with its items or an error wrapping domain.ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	if id == uuid.Nil {
		return nil, &domain.ValidationError{Errors: []domain.FieldError{{Field: "id", Message: "Sale ID is required."}}}
	}

	sale, found, err := s.store.GetSaleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("sale %s: %w", id, domain.ErrNotFound)
	}
	return sale, nil
}

// Update applies the command to a stored sale, runs the cancellation cascade
// and publishes the resulting notifications once the change is committed.
//
// Items listed without an ID are added, unless the sale is already
// cancelled. Listed items with an ID must belong to the sale and appear once.
// Stored items the command does not list are left as they are.
func (s *Service) Update(ctx context.Context, cmd UpdateSaleCommand) (*domain.Sale, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		sale    *domain.Sale
		outcome domain.CancellationOutcome
	)
	err := s.store.WithinTx(ctx, func(repo domain.Repository) error {
		stored, found, err := repo.GetSaleByID(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("sale %s: %w", cmd.ID, domain.ErrNotFound)
		}

		existing, added, req, err := mergeItems(stored, cmd)
		if err != nil {
			return err
		}

		stored.CustomerID = cmd.CustomerID
		stored.BranchID = cmd.BranchID
		req.Sale = cmd.Cancelled

		items := append(append([]*domain.SaleItem{}, existing...), added...)
		outcome = domain.ApplyCancellation(stored, items, req)
		if err := stored.AttachItems(items); err != nil {
			return err
		}
		if err := stored.Validate().Err(); err != nil {
			return err
		}

		if err := repo.UpdateSale(ctx, stored); err != nil {
			return err
		}
		if len(existing) > 0 {
			if err := repo.UpdateItems(ctx, existing); err != nil {
				return err
			}
		}
		if err := repo.CreateItems(ctx, added); err != nil {
			return err
		}

		sale = stored
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update sale %s: %w", cmd.ID, err)
	}

	s.publish(ctx, sale.ID, updateNotifications(sale, outcome, s.now().UTC())...)

	return sale, nil
}

// mergeItems rebuilds the stored items from the command. Rebuilt items keep
// their ID and their previous cancellation state. Item IDs are unique, which
// the command validation guarantees.
func mergeItems(stored *domain.Sale, cmd UpdateSaleCommand) (existing, added []*domain.SaleItem, req domain.CancellationRequest, err error) {
	req.Items = make(map[uuid.UUID]bool)

	listed := make(map[uuid.UUID]UpdateItemInput, len(cmd.Items))
	for i, in := range cmd.Items {
		if in.ID == uuid.Nil {
			item, err := domain.NewSaleItem(in.ProductID, in.Quantity, in.UnitPrice, false)
			if err != nil {
				return nil, nil, req, fmt.Errorf("items[%d]: %w", i, err)
			}
			added = append(added, item)
			if in.Cancelled {
				req.Items[item.ID] = true
			}
			continue
		}
		listed[in.ID] = in
	}

	owned := make(map[uuid.UUID]bool, len(stored.Items))
	for _, prev := range stored.Items {
		owned[prev.ID] = true

		in, ok := listed[prev.ID]
		if !ok {
			existing = append(existing, prev)
			continue
		}

		item, err := domain.NewSaleItem(in.ProductID, in.Quantity, in.UnitPrice, prev.IsCancelled())
		if err != nil {
			return nil, nil, req, fmt.Errorf("item %s: %w", in.ID, err)
		}
		item.ID = prev.ID
		existing = append(existing, item)
		if in.Cancelled {
			req.Items[item.ID] = true
		}
	}

	var rejected []domain.FieldError
	for i, in := range cmd.Items {
		switch {
		case in.ID == uuid.Nil && stored.IsCancelled():
			rejected = append(rejected, domain.FieldError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: "Cannot add items to a cancelled sale.",
			})
		case in.ID != uuid.Nil && !owned[in.ID]:
			rejected = append(rejected, domain.FieldError{
				Field:   fmt.Sprintf("items[%d].id", i),
				Message: fmt.Sprintf("Item %s does not belong to the sale.", in.ID),
			})
		}
	}
	if len(rejected) > 0 {
		return nil, nil, req, &domain.ValidationError{Errors: rejected}
	}

	return existing, added, req, nil
}

// updateNotifications orders the notifications of one update: item
// cancellations, then the sale cancellation, then sale_modified.
func updateNotifications(sale *domain.Sale, outcome domain.CancellationOutcome, at time.Time) []events.Envelope {
	out := make([]events.Envelope, 0, len(outcome.CancelledItems)+2)
	for _, item := range outcome.CancelledItems {
		out = append(out, events.Envelope{
			Topic:   events.TopicSaleItemCancelled,
			Payload: events.SaleItemCancelled{Item: events.SnapshotItem(item), OccurredAt: at},
		})
	}

	snapshot := events.SnapshotSale(sale)
	if outcome.SaleCancelled {
		out = append(out, events.Envelope{
			Topic:   events.TopicSaleCancelled,
			Payload: events.SaleCancelled{Sale: snapshot, OccurredAt: at},
		})
	}

	return append(out, events.Envelope{
		Topic:   events.TopicSaleModified,
		Payload: events.SaleModified{Sale: snapshot, OccurredAt: at},
	})
}

func (s *Service) publish(ctx context.Context, saleID uuid.UUID, envelopes ...events.Envelope) {
	for _, e := range envelopes {
		if err := s.publisher.Publish(ctx, e.Topic, e.Payload); err != nil {
			s.logger.Error("failed to publish event",
				zap.String("topic", e.Topic),
				zap.String("sale_id", saleID.String()),
				zap.Error(err),
			)
		}
	}
}
