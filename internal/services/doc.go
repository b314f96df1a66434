// Package services defines the shared error taxonomy and request-scoped
// context helpers used by classification backends and workflow stages.
package services
