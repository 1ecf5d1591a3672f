package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"medibook/internal/service"
)

type StripeWebhookHandler struct {
	WebhookSecret string
	Booking       *service.BookingService
}

func NewStripeWebhookHandler(webhookSecret string, booking *service.BookingService) *StripeWebhookHandler {
	return &StripeWebhookHandler{WebhookSecret: webhookSecret, Booking: booking}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("error reading webhook body")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.WebhookSecret)
	if err != nil {
		log.Error().Err(err).Msg("webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			log.Error().Err(err).Msg("error parsing checkout.session")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		paymentIntentID := ""
		if sess.PaymentIntent != nil {
			paymentIntentID = sess.PaymentIntent.ID
		}
		if err := h.Booking.ConfirmPayment(r.Context(), sess.ID, paymentIntentID); err != nil {
			log.Error().Err(err).Str("session", sess.ID).Msg("could not confirm payment")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			log.Error().Err(err).Msg("error parsing charge")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
			log.Warn().Str("charge", charge.ID).Msg("refunded charge without payment intent")
			break
		}
		if err := h.Booking.RecordRefundByPaymentIntent(charge.PaymentIntent.ID); err != nil {
			log.Error().Err(err).Str("payment_intent", charge.PaymentIntent.ID).Msg("could not record refund")
		}

	default:
		log.Debug().Str("type", string(event.Type)).Msg("unhandled stripe event")
	}

	w.WriteHeader(http.StatusOK)
}
