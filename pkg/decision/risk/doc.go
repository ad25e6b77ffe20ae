// Package risk maps a consensus probability to a risk tier. Bands are
// closed on the lower bound and open on the upper bound, so a probability
// sitting exactly on a boundary resolves to the safer (lower) tier. The
// package also computes explanatory per-factor scores from the raw
// application for auditability; those scores never influence the tier.
package risk
