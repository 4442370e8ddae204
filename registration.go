package dbind

// Registration is a deferred format registration. Formats are exposed as
// values of this type so callers opt in explicitly instead of relying on
// import side-effects (init functions):
//
//	var YAML = dbind.NewFormat(decodeYAML, "yaml", "yml")
//
//	r, _ := dbind.NewRegistry(dbind.Formats(), YAML)
type Registration func(r *Registry) error

// NewFormat wraps a typed decoder into a Registration that registers it under
// every given name. Registering the same loader under several names is how one
// format claims multiple file extensions.
func NewFormat[T any](fn func(src []byte) (T, error), names ...string) Registration {
	return func(r *Registry) error {
		load := func(src []byte) (any, error) {
			out, err := fn(src)
			if err != nil {
				return nil, err
			}
			return out, nil
		}
		for _, name := range names {
			if err := r.Register(name, load); err != nil {
				return err
			}
		}
		return nil
	}
}

// Group groups multiple registrations into one:
//
//	dbind.NewRegistry(dbind.Group(dbind.JSONFormat, dbind.TSVFormat), custom)
func Group(regs ...Registration) Registration {
	return func(r *Registry) error { return Apply(r, regs...) }
}

// Apply applies one or more registrations to an existing registry. Stops at the
// first error and returns it.
func Apply(r *Registry, regs ...Registration) error {
	for _, reg := range regs {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry constructs a new registry and applies the provided registrations.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := newRegistry()
	if err := Apply(r, regs...); err != nil {
		return nil, err
	}
	return r, nil
}
