// Package dashboard aggregates already fetched collections into the vendor
// and admin dashboard figures. The Compute functions are pure and take the
// current time explicitly; the dashboards only fetch and call them.
package dashboard
