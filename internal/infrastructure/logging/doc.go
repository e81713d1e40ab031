// Package logging provides the console logger used by msigcheck and a
// recorder for capturing its output in tests.
package logging
