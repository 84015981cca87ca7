package role

// Meta is the parsed metadata record for one role. A role without a metadata
// file gets the zero value: no ordering hints, no declared dependencies.
type Meta struct {
	RunAfter     []string       // non-blocking "run after" ordering hints
	Dependencies []string       // blocking prerequisites declared in metadata
	Info         map[string]any // remaining scalar metadata fields, carried into snapshots
}

// Role is one named unit of declarative configuration, identified by its
// directory name. Roles are discovered once per run and immutable afterwards.
type Role struct {
	Name string
	Dir  string // absolute path to the role directory
}
