package domain

// Transition is the effect of one gateway fact on a Payment and its Booking.
// The payment side is applied only when the current status ranks below
// Payment. The booking side runs only if the payment row changed.
type Transition struct {
	Name        string
	Payment     PaymentStatus
	Booking     BookingStatus
	BookingFrom []BookingStatus
}

func (t Transition) ChangesBooking() bool {
	return t.Booking != ""
}

// PaymentFrom is the compare-and-set source set for the payment write.
func (t Transition) PaymentFrom() []PaymentStatus {
	return PaymentStatusesBelow(t.Payment)
}

var (
	// TransitionCheckoutVerified is the client-side success. The booking is
	// only provisionally completed until the gateway confirms the capture.
	TransitionCheckoutVerified = Transition{
		Name:    "checkout.verified",
		Payment: PaymentStatusCaptured,
		Booking: BookingStatusCompleted,
		BookingFrom: []BookingStatus{
			BookingStatusCreated,
			BookingStatusReserved,
			BookingStatusCancelled,
		},
	}

	TransitionPaymentCaptured = Transition{
		Name:    EventPaymentCaptured,
		Payment: PaymentStatusSuccess,
		Booking: BookingStatusConfirmed,
		BookingFrom: []BookingStatus{
			BookingStatusCreated,
			BookingStatusReserved,
			BookingStatusCancelled,
			BookingStatusCompleted,
		},
	}

	TransitionPaymentFailed = Transition{
		Name:    EventPaymentFailed,
		Payment: PaymentStatusFailed,
		Booking: BookingStatusCancelled,
		BookingFrom: []BookingStatus{
			BookingStatusCreated,
			BookingStatusReserved,
		},
	}

	// manual-capture flow, the booking waits for the capture
	TransitionPaymentAuthorized = Transition{
		Name:    EventPaymentAuthorized,
		Payment: PaymentStatusAuthorized,
	}

	TransitionRefundCreated = Transition{
		Name:    EventRefundCreated,
		Payment: PaymentStatusRefunded,
		Booking: BookingStatusCancelled,
		BookingFrom: []BookingStatus{
			BookingStatusCreated,
			BookingStatusReserved,
			BookingStatusConfirmed,
			BookingStatusCompleted,
		},
	}
)

type ReconcileOutcome string

const (
	OutcomeApplied  ReconcileOutcome = "APPLIED"
	OutcomeNoop     ReconcileOutcome = "NOOP"
	OutcomeOrphaned ReconcileOutcome = "ORPHANED"
	OutcomeIgnored  ReconcileOutcome = "IGNORED"
)

// TransitionResult describes what a transition did to the stored records.
// SuccessRecorded is true only for the single write that first moved the
// payment into a success status.
type TransitionResult struct {
	Outcome         ReconcileOutcome
	Payment         *Payment
	Booking         *Booking
	PreviousStatus  PaymentStatus
	BookingChanged  bool
	SuccessRecorded bool
}
