// Package selector parses and evaluates the predicate expressions used as keys
// in explicit dot documents.
//
// A selector names one or more alternatives separated by "|". Each alternative
// starts with an operating system ("global", "windows", "linux" or "darwin")
// and may be followed by attribute blocks:
//
//	linux[whoami.username="alice"] | darwin
//	windows[env.USERDOMAIN^="CORP", whoami.hostname!="build"]
//	linux[whoami.distro*="ubuntu"][whoami.hostname$="-dev"]
//
// An attribute key is a dotted path that is rendered against the current
// template context; the rendered value is compared with the quoted literal
// using the operator. A selector applies when any alternative matches the
// current operating system (or is global) and all of its attributes hold.
package selector
