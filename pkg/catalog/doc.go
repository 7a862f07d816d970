/*
Package catalog holds the read-only registry of program elements that an API
documentation run links against: classes with their methods, properties and
constants, namespace or global constants, and functions.

Elements are keyed by their namespace-qualified name (segments separated by a
backslash). A Catalog is populated once, from a Snapshot file or from a SQLite
Store, and is then shared by every template helper of a render pass. It is
never written to while templates execute, so concurrent readers need no
locking.
*/
package catalog
