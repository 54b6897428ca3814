package domain

import (
	"encoding/json"
	"fmt"
)

// StatusKind is the closed set of order lifecycle stages the client knows
// how to render. Anything else the server sends decodes to StatusUnknown.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusPendingPayment
	StatusPaymentSubmitted
	StatusPaymentApproved
	StatusPaymentRejected
	StatusShipped
	StatusDelivered
	StatusCancelled
)

var kindWireNames = [...]string{
	StatusUnknown:          "",
	StatusPendingPayment:   "pending_payment",
	StatusPaymentSubmitted: "payment_submitted",
	StatusPaymentApproved:  "payment_approved",
	StatusPaymentRejected:  "payment_rejected",
	StatusShipped:          "shipped",
	StatusDelivered:        "delivered",
	StatusCancelled:        "cancelled",
}

// legacy vocabulary still present on old orders
var legacyKinds = map[string]StatusKind{
	"pending":   StatusPendingPayment,
	"completed": StatusDelivered,
}

func (k StatusKind) String() string {
	if k < 0 || int(k) >= len(kindWireNames) || k == StatusUnknown {
		return "unknown"
	}
	return kindWireNames[k]
}

// Status is an order status as received from the server. Raw keeps the wire
// value so unknown and legacy statuses round-trip untouched.
type Status struct {
	Kind StatusKind
	Raw  string
}

func NewStatus(k StatusKind) Status {
	if k <= StatusUnknown || int(k) >= len(kindWireNames) {
		return Status{Kind: StatusUnknown}
	}
	return Status{Kind: k, Raw: kindWireNames[k]}
}

func ParseStatus(raw string) Status {
	for k, name := range kindWireNames {
		if name != "" && name == raw {
			return Status{Kind: StatusKind(k), Raw: raw}
		}
	}
	if k, ok := legacyKinds[raw]; ok {
		return Status{Kind: k, Raw: raw}
	}
	return Status{Kind: StatusUnknown, Raw: raw}
}

func (s Status) String() string {
	return s.Raw
}

// Legacy reports whether the status came from the old pending/completed vocabulary.
func (s Status) Legacy() bool {
	_, ok := legacyKinds[s.Raw]
	return ok
}

// Canonical returns the status with its raw value rewritten to the current vocabulary.
func (s Status) Canonical() Status {
	if s.Kind == StatusUnknown {
		return s
	}
	return NewStatus(s.Kind)
}

func (s Status) Is(k StatusKind) bool {
	return s.Kind == k
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Raw)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode order status: %w", err)
	}
	*s = ParseStatus(raw)
	return nil
}

type Color string

const (
	ColorWarning   Color = "warning"
	ColorInfo      Color = "info"
	ColorSuccess   Color = "success"
	ColorDanger    Color = "danger"
	ColorPrimary   Color = "primary"
	ColorDark      Color = "dark"
	ColorSecondary Color = "secondary"
)

func (s Status) Text() string {
	switch s.Kind {
	case StatusPendingPayment:
		return "Pending payment"
	case StatusPaymentSubmitted:
		return "Payment under review"
	case StatusPaymentApproved:
		return "Payment approved"
	case StatusPaymentRejected:
		return "Payment rejected"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	case StatusUnknown:
		if s.Raw == "" {
			return "Unknown"
		}
	}
	return s.Raw
}

func (s Status) Color() Color {
	switch s.Kind {
	case StatusPendingPayment:
		return ColorWarning
	case StatusPaymentSubmitted:
		return ColorInfo
	case StatusPaymentApproved, StatusDelivered:
		return ColorSuccess
	case StatusPaymentRejected:
		return ColorDanger
	case StatusShipped:
		return ColorPrimary
	case StatusCancelled:
		return ColorDark
	case StatusUnknown:
	}
	return ColorSecondary
}

func (s Status) Description() string {
	switch s.Kind {
	case StatusPendingPayment:
		return "Transfer the order total to our bank account and upload the payment receipt."
	case StatusPaymentSubmitted:
		return "We received your receipt and are verifying the payment."
	case StatusPaymentApproved:
		return "Your payment was confirmed. We are preparing your order."
	case StatusPaymentRejected:
		return "We could not verify your payment. Check the notes and upload a new receipt."
	case StatusShipped:
		return "Your order is on its way."
	case StatusDelivered:
		return "Your order was delivered."
	case StatusCancelled:
		return "This order was cancelled."
	case StatusUnknown:
	}
	return fmt.Sprintf("The store reported status %q.", s.Raw)
}

// CanUploadReceipt is the single gate for receipt uploads.
func (s Status) CanUploadReceipt() bool {
	return s.Kind == StatusPendingPayment || s.Kind == StatusPaymentRejected
}

// AwaitingReview reports whether an admin can approve or reject the payment.
func (s Status) AwaitingReview() bool {
	return s.Kind == StatusPaymentSubmitted
}

func (s Status) IsTerminal() bool {
	return s.Kind == StatusDelivered || s.Kind == StatusCancelled
}
