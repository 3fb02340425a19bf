// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/project).
// This root package holds sentinel errors, validation types, the engine's
// operation result and error taxonomy, and the Action interface that every
// transaction step implements.
package domain
