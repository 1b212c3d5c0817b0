package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/and161185/ordertrack/internal/blob"
	"github.com/and161185/ordertrack/internal/errs"
	"github.com/and161185/ordertrack/internal/mocks"
	"github.com/and161185/ordertrack/internal/model"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type failingBlobStore struct{}

func (failingBlobStore) Upload(ctx context.Context, content io.Reader, originalName string) (string, error) {
	return "", errors.New("storage unavailable")
}

func (failingBlobStore) Delete(ctx context.Context, key string) (bool, error) {
	return false, errors.New("storage unavailable")
}

func newOrderService(t *testing.T, blobs BlobStore) (*OrderService, *mocks.MockOrderStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := mocks.NewMockOrderStore(ctrl)

	svc := NewOrderService(store, blobs, zaptest.NewLogger(t).Sugar())
	return svc, store
}

func storedOrder() model.Order {
	return model.Order{
		ID:           "ord-1",
		CustomerName: "ACME",
		OrderAmount:  100,
		OrderDate:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		DocumentURL:  "http://localhost:8080/uploads/invoices/abc.pdf",
		Status:       model.StatusPending,
	}
}

func TestCreateOrder(t *testing.T) {
	blobs := blob.NewMemoryStore()
	svc, store := newOrderService(t, blobs)

	store.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, order model.Order) error {
			require.NotEmpty(t, order.ID)
			require.Equal(t, model.StatusPending, order.Status)
			require.Contains(t, order.DocumentURL, "/uploads/invoices/")
			require.False(t, order.OrderDate.IsZero())
			return nil
		})

	order, err := svc.Create(context.Background(), "ACME", 100, strings.NewReader("%PDF-1.4"), "invoice.pdf")
	require.NoError(t, err)
	require.Equal(t, "ACME", order.CustomerName)
	require.Equal(t, 100.0, order.OrderAmount)
	require.Equal(t, 1, blobs.Len())
}

func TestCreateOrderUploadFailure(t *testing.T) {
	// при сбое загрузки запись не создаётся вовсе
	svc, _ := newOrderService(t, failingBlobStore{})

	_, err := svc.Create(context.Background(), "ACME", 100, strings.NewReader("%PDF-1.4"), "invoice.pdf")
	require.Error(t, err)
}

func TestCreateOrderPersistFailureCleansUpBlob(t *testing.T) {
	blobs := blob.NewMemoryStore()
	svc, store := newOrderService(t, blobs)

	store.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	_, err := svc.Create(context.Background(), "ACME", 100, strings.NewReader("%PDF-1.4"), "invoice.pdf")
	require.Error(t, err)
	require.Equal(t, 0, blobs.Len())
}

func TestUpdateStatusHasNoTransitionGuard(t *testing.T) {
	svc, store := newOrderService(t, blob.NewMemoryStore())

	cancelled := storedOrder()
	cancelled.Status = model.StatusCancelled

	store.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(cancelled, nil)
	store.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, updated model.Order) error {
			require.Equal(t, model.StatusPending, updated.Status)
			require.Equal(t, cancelled.DocumentURL, updated.DocumentURL)
			require.Equal(t, cancelled.OrderDate, updated.OrderDate)
			return nil
		})

	order, err := svc.UpdateStatus(context.Background(), "ord-1", model.StatusPending)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, order.Status)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, store := newOrderService(t, blob.NewMemoryStore())

	store.EXPECT().GetOrder(gomock.Any(), "missing").Return(model.Order{}, errs.ErrOrderNotFound)

	_, err := svc.UpdateStatus(context.Background(), "missing", model.StatusCompleted)
	require.ErrorIs(t, err, errs.ErrOrderNotFound)
}

func TestUpdateKeepsDocumentAndDate(t *testing.T) {
	svc, store := newOrderService(t, blob.NewMemoryStore())
	existing := storedOrder()

	store.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(existing, nil)
	store.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, updated model.Order) error {
			require.Equal(t, "Globex", updated.CustomerName)
			require.Equal(t, 250.0, updated.OrderAmount)
			require.Equal(t, existing.DocumentURL, updated.DocumentURL)
			require.Equal(t, existing.OrderDate, updated.OrderDate)
			require.Equal(t, existing.Status, updated.Status)
			return nil
		})

	_, err := svc.Update(context.Background(), "ord-1", "Globex", 250)
	require.NoError(t, err)
}

func TestDeleteRemovesBlob(t *testing.T) {
	blobs := blob.NewMemoryStore()
	svc, store := newOrderService(t, blobs)

	url, err := blobs.Upload(context.Background(), strings.NewReader("%PDF-1.4"), "invoice.pdf")
	require.NoError(t, err)

	existing := storedOrder()
	existing.DocumentURL = url

	store.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(existing, nil)
	store.EXPECT().DeleteOrder(gomock.Any(), "ord-1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "ord-1"))
	require.Equal(t, 0, blobs.Len())
}

func TestDeleteWithMissingBlobStillRemovesRecord(t *testing.T) {
	svc, store := newOrderService(t, blob.NewMemoryStore())

	store.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(storedOrder(), nil)
	store.EXPECT().DeleteOrder(gomock.Any(), "ord-1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "ord-1"))
}

func TestDeleteWithFailingBlobStoreStillRemovesRecord(t *testing.T) {
	svc, store := newOrderService(t, failingBlobStore{})

	store.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(storedOrder(), nil)
	store.EXPECT().DeleteOrder(gomock.Any(), "ord-1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "ord-1"))
}

func TestDeleteNotFound(t *testing.T) {
	svc, store := newOrderService(t, blob.NewMemoryStore())

	store.EXPECT().GetOrder(gomock.Any(), "missing").Return(model.Order{}, errs.ErrOrderNotFound)

	err := svc.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, errs.ErrOrderNotFound)
}

func TestBlobKey(t *testing.T) {
	tests := []struct {
		url string
		key string
	}{
		{"http://localhost:8080/uploads/invoices/abc.pdf", "invoices/abc.pdf"},
		{"https://files.example.com/uploads/invoices/x.pdf", "invoices/x.pdf"},
		{"http://localhost:8080/static/invoices/abc.pdf", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := blobKey(tt.url); got != tt.key {
			t.Errorf("blobKey(%q): expected %q, got %q", tt.url, tt.key, got)
		}
	}
}
