// Package browser holds the Controller, the state machine behind the
// browsing panel.
//
// A controller starts Idle. Open resolves a root and moves to Browsing;
// a non-empty query moves to Searching and clearing it moves back. Every
// operation other than Open fails with NOT_BROWSING while Idle.
//
// Failures never change the navigation state. Each one is also recorded
// as a types.Notice so a front end can show it without inspecting the
// error.
//
// The controller is not safe for concurrent use. Slow listings can be
// split with BeginRefresh, Fetch and CompleteRefresh; a completion that
// belongs to an older generation is discarded.
package browser
