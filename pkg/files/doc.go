// Package files holds small filesystem helpers used by specs and by the
// autorun loop: Cd, Cp, Mv, Touch, Mkdir, Sh and a recursive, debounced
// file Watcher built on fsnotify.
package files
