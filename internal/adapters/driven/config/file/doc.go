// Package file provides file-based configuration storage.
//
// The ConfigStore reads the engine's recognized options from a TOML
// file and maps them onto domain.Settings.
package file
