// Package domain models bird-band sighting records.
//
// # Data Source
//
// Sightings come from a shared spreadsheet published as a JSON feed. Each row
// is a map of column names prefixed with "gsx$" whose values are wrapped as
// {"$t": "<cell text>"}. Only a closed set of columns is read (see
// [AllowedFields]); every other column is dropped.
//
// # Band Conventions
//
// A banded bird carries up to four color/letter bands read from four
// positions on the legs:
//
//	ul  upper-left    ur  upper-right
//	ll  lower-left    lr  lower-right
//
// The band-string concatenates the readings in the order ul, ll, ur, lr and
// substitutes "X" for an unread position, so it is always four characters:
//
//	ul=A ur=- lr=C ll=D  →  "ADXC"
//
// The band number is the authoritative identifier of a bird. Every sighting
// with the same band number belongs to the same Bird.
//
// # Normalization
//
// Cell values are trimmed of their wrapper, expanded through a small
// location-shortcut table ("JCNWR" → full refuge name), and coerced to numbers
// when they parse completely as one. Dates accept the formats spreadsheet
// users actually type and are parsed in UTC. Nothing here is fatal: a value
// that does not parse stays a string, a date that does not parse is marked
// invalid.
package domain
