// Package config loads msigcheck settings from the process environment.
// Every setting has a default matching the production Safe and validator API,
// so an empty environment yields a runnable configuration.
package config
