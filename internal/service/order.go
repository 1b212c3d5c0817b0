package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/and161185/ordertrack/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, order model.Order) error
	GetOrder(ctx context.Context, id string) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	FindOrdersByCustomer(ctx context.Context, name string) ([]model.Order, error)
	FindOrdersByAmountRange(ctx context.Context, min, max float64) ([]model.Order, error)
	UpdateOrder(ctx context.Context, order model.Order) error
	DeleteOrder(ctx context.Context, id string) error
}

type BlobStore interface {
	Upload(ctx context.Context, content io.Reader, originalName string) (string, error)
	Delete(ctx context.Context, key string) (bool, error)
}

type OrderService struct {
	store  OrderStore
	blobs  BlobStore
	logger *zap.SugaredLogger
}

func NewOrderService(store OrderStore, blobs BlobStore, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{
		store:  store,
		blobs:  blobs,
		logger: logger,
	}
}

// uploadsMarker separates the public URL prefix from the storage key inside a
// document URL.
const uploadsMarker = "/uploads/"

// Create uploads the document first and persists the order only on upload
// success, so no order record ever exists without a stored document.
func (s *OrderService) Create(ctx context.Context, customerName string, amount float64, document io.Reader, originalName string) (model.Order, error) {
	documentURL, err := s.blobs.Upload(ctx, document, originalName)
	if err != nil {
		return model.Order{}, fmt.Errorf("upload document: %w", err)
	}

	order := model.Order{
		ID:           uuid.NewString(),
		CustomerName: customerName,
		OrderAmount:  amount,
		OrderDate:    time.Now(),
		DocumentURL:  documentURL,
		Status:       model.StatusPending,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		// запись не создана — подчищаем только что загруженный файл
		if key := blobKey(documentURL); key != "" {
			if _, delErr := s.blobs.Delete(ctx, key); delErr != nil {
				s.logger.Errorf("cleanup document %s: %v", key, delErr)
			}
		}
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

// UpdateStatus overwrites the status unconditionally. Transitions are not
// guarded: any status may move to any other.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	order.Status = status
	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return model.Order{}, fmt.Errorf("update status: %w", err)
	}

	return order, nil
}

// Update overwrites customer name and amount only, document URL and order
// date stay as created.
func (s *OrderService) Update(ctx context.Context, id, customerName string, amount float64) (model.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	order.CustomerName = customerName
	order.OrderAmount = amount
	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return model.Order{}, fmt.Errorf("update order: %w", err)
	}

	return order, nil
}

// Delete removes the backing blob best-effort before deleting the record.
// Blob-delete failure never blocks record deletion.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	if key := blobKey(order.DocumentURL); key != "" {
		found, err := s.blobs.Delete(ctx, key)
		if err != nil {
			s.logger.Errorf("delete document %s for order %s: %v", key, id, err)
		} else if !found {
			s.logger.Warnf("document %s for order %s already missing", key, id)
		}
	}

	return s.store.DeleteOrder(ctx, id)
}

func (s *OrderService) Get(ctx context.Context, id string) (model.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *OrderService) FindByCustomer(ctx context.Context, name string) ([]model.Order, error) {
	return s.store.FindOrdersByCustomer(ctx, name)
}

func (s *OrderService) FindByAmountRange(ctx context.Context, min, max float64) ([]model.Order, error) {
	return s.store.FindOrdersByAmountRange(ctx, min, max)
}

// blobKey recovers the storage key from a document URL by stripping
// everything up to and including the /uploads/ marker.
func blobKey(documentURL string) string {
	idx := strings.Index(documentURL, uploadsMarker)
	if idx < 0 {
		return ""
	}
	return documentURL[idx+len(uploadsMarker):]
}
