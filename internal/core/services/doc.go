// Package services implements the core application logic behind the
// driving ports: the conversation controller state machine and college
// descriptor lookups.
package services
