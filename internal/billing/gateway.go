package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// FreeOrderPrefix marks order ids issued locally for zero-amount orders.
const FreeOrderPrefix = "free_"

// GatewayOrder is an order created at the payment gateway.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// Gateway creates payment orders and verifies payment callbacks.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// orderCreator is the part of the Razorpay client the gateway uses.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway implements Gateway with Razorpay.
type RazorpayGateway struct {
	orders    orderCreator
	keyID     string
	keySecret string
}

// NewRazorpayGateway creates a gateway from API credentials.
func NewRazorpayGateway(keyID, keySecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay key id and secret are required")
	}
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayGateway{orders: client.Order, keyID: keyID, keySecret: keySecret}, nil
}

// KeyID returns the public key id the checkout widget needs.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder implements Gateway. Zero-amount orders get a local free_ id and
// never reach the API.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	if amount < 0 {
		return nil, fmt.Errorf("order amount must not be negative")
	}
	if amount == 0 {
		return &GatewayOrder{ID: FreeOrderPrefix + uuid.NewString(), Amount: 0, Currency: currency}, nil
	}

	noteMap := make(map[string]interface{}, len(notes))
	for k, v := range notes {
		noteMap[k] = v
	}
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    noteMap,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := g.orders.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("razorpay order creation failed: %w", res.err)
	}

	id, _ := res.body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay returned no order id")
	}
	log.Printf("[billing] created razorpay order %s for %d %s", id, amount, currency)
	return &GatewayOrder{ID: id, Amount: amount, Currency: currency}, nil
}

// VerifySignature implements Gateway: the signature is the hex HMAC-SHA256 of
// "order_id|payment_id" keyed with the API secret.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyHMAC(g.keySecret, orderID+"|"+paymentID, signature)
}

// IsFreeOrder reports whether an order id was issued locally.
func IsFreeOrder(orderID string) bool {
	return strings.HasPrefix(orderID, FreeOrderPrefix)
}

// Sign returns the signature a gateway would send for the payload.
func Sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func verifyHMAC(secret, payload, signature string) bool {
	expected := Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
