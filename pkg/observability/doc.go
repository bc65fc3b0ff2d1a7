/*
Package observability bridges engine lifecycle hooks into Prometheus
metrics, so hosts can chart funnel traffic (block visits, message volume,
offer-timer outcomes) without wiring counters by hand.
*/
package observability
