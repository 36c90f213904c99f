// Package convert runs one conversion request through validation,
// rendering and theme wrapping, logging each step.
package convert
