// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the college backend gateway, session
// persistence, and configuration.
package driven
