// Package aggregates defines the tracker's write boundaries: the application
// aggregate contract, the ownership guard it relies on, and the coded errors
// every layer above it maps to responses.
//
// Nothing here knows about gorm, gin or Redis.
package aggregates
