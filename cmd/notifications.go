package cmd

import (
	"context"

	"bolao/events"

	log "github.com/sirupsen/logrus"
)

// subscribeNotifications registers the event handlers that surface domain
// activity. Today they log; a messaging integration would hang off the same
// subscriptions.
func subscribeNotifications(bus *events.Bus) {
	bus.Subscribe(events.EventTypePaymentConfirmed, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.PaymentConfirmedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"paymentId": e.PaymentID,
			"userId":    e.UserID,
			"contestId": e.ContestID,
			"quotas":    e.QuotaCount,
			"amount":    e.Amount,
		}).Info("Payment confirmed")
	})

	bus.Subscribe(events.EventTypePaymentClosed, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.PaymentClosedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"paymentId":      e.PaymentID,
			"contestId":      e.ContestID,
			"quotasReleased": e.QuotasReleased,
			"finalStatus":    e.FinalStatus,
		}).Info("Payment closed")
	})

	bus.Subscribe(events.EventTypeParticipationMerged, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.ParticipationMergedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"participationId": e.ParticipationID,
			"userId":          e.UserID,
			"contestId":       e.ContestID,
			"quotasAdded":     e.QuotasAdded,
			"totalQuotas":     e.TotalQuotas,
			"created":         e.Created,
		}).Info("Participation merged")
	})

	bus.Subscribe(events.EventTypeContestSoldOut, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.ContestSoldOutEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"contestId": e.ContestID,
			"maxQuotas": e.MaxQuotas,
		}).Info("Contest sold out")
	})

	bus.Subscribe(events.EventTypeQuotasGranted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.QuotasGrantedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"contestId": e.ContestID,
			"userId":    e.UserID,
			"quotas":    e.QuotaCount,
		}).Info("Quotas granted")
	})
}
