// Package textutil turns candidate file names into filesystem-safe directory
// names for per-file analysis artifacts.
package textutil
