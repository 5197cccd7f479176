package sim

// registry keeps named forces in registration order. Replacing a force
// keeps its original slot.
type registry struct {
	names  []string
	forces []Force
}

func (r *registry) set(name string, f Force) {
	for i, n := range r.names {
		if n == name {
			r.forces[i] = f
			return
		}
	}
	r.names = append(r.names, name)
	r.forces = append(r.forces, f)
}

func (r *registry) remove(name string) bool {
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			r.forces = append(r.forces[:i], r.forces[i+1:]...)
			return true
		}
	}
	return false
}

func (r *registry) get(name string) Force {
	for i, n := range r.names {
		if n == name {
			return r.forces[i]
		}
	}
	return nil
}
