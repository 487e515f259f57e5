// Package tui runs the ball-and-stick view in a terminal.
package tui
