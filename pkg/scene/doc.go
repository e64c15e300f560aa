// Package scene defines the read-only element model and the host
// capabilities (document queries, views, transactions) that hanger
// association consumes. Implementations live elsewhere; see
// scene/memory for the in-process host.
package scene
