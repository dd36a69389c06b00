// Package core defines the shared language of the sqlrestore system.
//
// This package contains:
//   - Parameter entities parsed from a framework log (Param, Literal)
//   - Formatting options shared by the composer and the formatter (FormatOptions)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
