// Package demos holds the built-in effect demos. Each subpackage registers
// itself with the registry from init, so importing it for side effects is
// enough to make it available.
package demos
