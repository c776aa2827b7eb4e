package models

import "errors"

var ErrInvalidAadhaar = errors.New("aadhaar number must be exactly 12 digits")

// ValidateAadhaar enforces the 12-digit rule at the API boundary.
// An empty number is fine (the field is optional); the store itself
// never looks at it.
func ValidateAadhaar(number string) error {
	if number == "" {
		return nil
	}
	if len(number) != 12 {
		return ErrInvalidAadhaar
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return ErrInvalidAadhaar
		}
	}
	return nil
}

// DeriveAggregates is the ONLY place job money and status fields are
// computed. Every write path (job handlers, workbook import) must run a
// job through here before saving; no caller sets Status, PaymentStatus,
// TotalAmount or Balance by hand.
func DeriveAggregates(job *Job) {
	var total float64
	allCompleted := len(job.Items) > 0
	allCancelled := len(job.Items) > 0
	anyStarted := false

	for i := range job.Items {
		item := &job.Items[i]
		if item.Status == "" {
			item.Status = JobPending
		}

		// Line subtotal, floored at zero
		sub := float64(item.Quantity)*item.UnitPrice - item.Discount
		if sub < 0 {
			sub = 0
		}
		item.Subtotal = sub
		total += sub

		if item.Status != JobCompleted {
			allCompleted = false
		}
		if item.Status != JobCancelled {
			allCancelled = false
		}
		if item.Status == JobInProgress || item.Status == JobCompleted {
			anyStarted = true
		}
	}

	// Job-level discount on top of line discounts
	total -= job.Discount
	if total < 0 {
		total = 0
	}
	job.TotalAmount = total

	job.Balance = total - job.PaidAmount
	if job.Balance < 0 {
		job.Balance = 0
	}

	switch {
	case job.Balance == 0:
		job.PaymentStatus = PaymentPaid
	case job.PaidAmount > 0 && job.Balance > 0:
		job.PaymentStatus = PaymentPartial
	default:
		job.PaymentStatus = PaymentUnpaid
	}

	switch {
	case allCompleted:
		job.Status = JobCompleted
	case allCancelled:
		job.Status = JobCancelled
	case anyStarted:
		job.Status = JobInProgress
	default:
		job.Status = JobPending
	}
}
