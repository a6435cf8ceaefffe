package payments

import (
	"context"
	"fmt"
	"math"
	"os"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/example/guriri-dispatch/internal/geo"
	"github.com/example/guriri-dispatch/internal/models"
)

// Client wraps stripe-go PaymentIntent hold/capture/cancel for the client
// freight charge: funds are held when the order is created and captured on
// delivery (or released on cancellation).
type Client struct{}

// NewClient initializes the stripe client with the STRIPE_API_KEY env var.
func NewClient() *Client {
	stripe.Key = os.Getenv("STRIPE_API_KEY")
	return &Client{}
}

// HoldFreight creates a manual-capture PaymentIntent for the order's freight
// value and returns its ID. Freight values are decimal strings in BRL.
func (c *Client) HoldFreight(ctx context.Context, o models.Order, customerID string) (string, error) {
	v, ok := geo.ParseDecimal(o.FreightValue)
	if !ok || v <= 0 {
		return "", fmt.Errorf("order %s has no chargeable freight value", o.ID)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(v * 100))),
		Currency: stripe.String("brl"),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}
	params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// Capture finalizes a previously-held freight charge.
func (c *Client) Capture(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Capture(paymentIntentID, nil)
	return err
}

// Cancel releases the hold on a freight charge.
func (c *Client) Cancel(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Cancel(paymentIntentID, nil)
	return err
}
