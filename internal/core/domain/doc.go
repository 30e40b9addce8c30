// Package domain contains the core business entities for CampusQuery.
// These types have no dependencies on infrastructure and represent
// the conversation state: turns, disambiguation candidates, and the
// confirmed college a session is bound to.
package domain
