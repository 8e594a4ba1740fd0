// Package timezone pins "now" and "today" to the rental yard's timezone, configured with APP_TIMEZONE
// as an IANA name such as "America/Chicago". Rental dates are calendar days, so Today returns the
// yard's current date as midnight UTC, the same form daterange uses.
package timezone
