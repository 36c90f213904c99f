// Package domain holds the request, response and log event types shared by
// the conversion pipeline and its transport.
package domain
