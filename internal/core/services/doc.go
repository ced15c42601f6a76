// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): extract, chunk, embed,
// store, retrieve, answer.
package services
