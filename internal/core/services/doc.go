// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Trained indexes live in a Workspace, one directory per chatbot,
// replaced atomically on every training run.
package services
