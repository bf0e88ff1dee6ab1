package client

import (
	"context"
	"fmt"
	"net/http"

	inverrors "seatsaga/internal/inventory/errors"
	notiferrors "seatsaga/internal/notifications/errors"
	payerrors "seatsaga/internal/payments/errors"
	"seatsaga/pkg/model"
)

// transportError keeps context errors intact so callers can tell a deadline
// from a refused connection.
func transportError(ctx context.Context, sentinel, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// InventoryClient talks to a remote inventory service.
type InventoryClient struct {
	httpClient *HttpClient
}

func NewInventoryClient(baseURL string) *InventoryClient {
	return &InventoryClient{httpClient: NewHttpClient(baseURL)}
}

func (c *InventoryClient) Reserve(ctx context.Context, eventID string, quantity int) (int, error) {
	return c.call(ctx, "/inventory/reserve", eventID, quantity)
}

func (c *InventoryClient) Release(ctx context.Context, eventID string, quantity int) (int, error) {
	return c.call(ctx, "/inventory/release", eventID, quantity)
}

func (c *InventoryClient) call(ctx context.Context, path, eventID string, quantity int) (int, error) {
	resp, err := c.httpClient.POST(ctx, path, model.InventoryRequest{EventID: eventID, Quantity: quantity})
	if err != nil {
		return 0, transportError(ctx, inverrors.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var out model.InventoryResponse
		if err := resp.DecodeJSON(&out); err != nil {
			return 0, fmt.Errorf("%w: undecodable response: %w", inverrors.ErrUnavailable, err)
		}
		return out.Remaining, nil
	case resp.StatusCode == http.StatusConflict:
		return 0, fmt.Errorf("%w: %s", inverrors.ErrInsufficientInventory, GetErrorMessage(resp))
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", inverrors.ErrUnknownResource, GetErrorMessage(resp))
	case resp.StatusCode == http.StatusBadRequest:
		return 0, fmt.Errorf("%w: %s", inverrors.ErrInvalidQuantity, GetErrorMessage(resp))
	default:
		return 0, fmt.Errorf("%w: status %d: %s", inverrors.ErrUnavailable, resp.StatusCode, GetErrorMessage(resp))
	}
}

// PaymentsClient talks to a remote payment gateway.
type PaymentsClient struct {
	httpClient *HttpClient
}

func NewPaymentsClient(baseURL string) *PaymentsClient {
	return &PaymentsClient{httpClient: NewHttpClient(baseURL)}
}

func (c *PaymentsClient) Charge(ctx context.Context, charge model.Charge) (*model.PaymentReceipt, error) {
	resp, err := c.httpClient.POST(ctx, "/payments/pay", charge)
	if err != nil {
		return nil, transportError(ctx, payerrors.ErrDeclined, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var receipt model.PaymentReceipt
		if err := resp.DecodeJSON(&receipt); err != nil {
			return nil, fmt.Errorf("%w: undecodable response: %w", payerrors.ErrDeclined, err)
		}
		return &receipt, nil
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", payerrors.ErrInvalidCharge, GetErrorMessage(resp))
	default:
		return nil, fmt.Errorf("%w: status %d: %s", payerrors.ErrDeclined, resp.StatusCode, GetErrorMessage(resp))
	}
}

// NotificationsClient talks to a remote notification service.
type NotificationsClient struct {
	httpClient *HttpClient
}

func NewNotificationsClient(baseURL string) *NotificationsClient {
	return &NotificationsClient{httpClient: NewHttpClient(baseURL)}
}

func (c *NotificationsClient) Send(ctx context.Context, n model.Notification) (model.NotificationResult, error) {
	resp, err := c.httpClient.POST(ctx, "/notifications/send", n)
	if err != nil {
		return model.NotificationResult{}, transportError(ctx, notiferrors.ErrUnavailable, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var result model.NotificationResult
		if err := resp.DecodeJSON(&result); err != nil {
			return model.NotificationResult{}, fmt.Errorf("%w: undecodable response: %w", notiferrors.ErrUnavailable, err)
		}
		return result, nil
	case http.StatusBadRequest:
		return model.NotificationResult{}, fmt.Errorf("%w: %s", notiferrors.ErrInvalidNotification, GetErrorMessage(resp))
	default:
		return model.NotificationResult{}, fmt.Errorf("%w: status %d: %s", notiferrors.ErrUnavailable, resp.StatusCode, GetErrorMessage(resp))
	}
}
