package domain

import "time"

// SubscriptionPeriodMonths is the length of one paid extension.
const SubscriptionPeriodMonths = 1

// DateOf truncates t to its calendar date at 00:00 UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months to a date. When the target month is
// shorter, the day is clamped to its last day (Jan 31 + 1 month = Feb 28).
func AddMonths(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// SubscriptionCandidate is the paid-before date an extension made on day
// now would grant.
func SubscriptionCandidate(now time.Time) time.Time {
	return AddMonths(DateOf(now), SubscriptionPeriodMonths)
}

// NeedsExtension reports whether current (nil when never subscribed) is
// strictly before candidate.
func NeedsExtension(current *time.Time, candidate time.Time) bool {
	return current == nil || DateOf(*current).Before(candidate)
}

// SubscriptionActive reports whether a paid-before date still covers today.
func SubscriptionActive(paidBefore *time.Time, now time.Time) bool {
	return paidBefore != nil && !DateOf(*paidBefore).Before(DateOf(now))
}
