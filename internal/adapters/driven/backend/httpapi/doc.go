// Package httpapi provides a BackendGateway adapter for the CampusQuery
// HTTP backend. It speaks the backend's JSON API (/college/resolve,
// /college/confirm, /chat, /college/{id}) and normalises transport and
// backend failures into the uniform GatewayError shape.
package httpapi
