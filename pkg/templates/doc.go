// Package templates renders script boilerplate and inserts it into the
// host's active document.
//
// A template body is plain text with placeholder markers:
//
//	{name}            must be supplied by the caller or a default
//	{name:default}    falls back to the inline default
//	\{                a literal brace
//
// Names follow [A-Za-z_][A-Za-z0-9_]*. Any other brace is kept as is, so
// Python dict and set literals survive rendering untouched.
//
// Values resolve in this order: the caller's context, the defaults the
// template declares in its manifest, the inline default, and finally the
// engine's fallback variables (user, author, date, year, hostname and the
// configured templates.defaults).
//
// The Catalog merges the embedded built-in templates with the user
// template folder. A user template replaces a built-in of the same name.
package templates
