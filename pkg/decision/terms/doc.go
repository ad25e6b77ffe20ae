// Package terms derives concrete loan terms (principal, rate, tenure,
// payment) from the risk tier and the application financials. Rates are
// linearly interpolated inside the tier's band by consensus probability,
// tenure is the longest standard tenure that keeps the amortized payment
// affordable, and the principal is reduced in fixed steps when no tenure
// fits.
package terms
