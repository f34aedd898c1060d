// Package env composes the environment handed to a child
// process from inherited variables, explicit inserts, and
// .env files.
package env

import (
	"os"
	"sort"
	"strings"
)

// Environment is an immutable recipe for a child environment.
// Every mutator returns a new value, so environments can be
// shared and extended without affecting each other. The parent
// process environment is read when Compile is called, not when
// the Environment is built.
type Environment struct {
	inherit bool
	ops     []operation
}

// operation is one recorded mutation, applied in order during
// Compile.
type operation struct {
	key    string
	value  string
	remove bool
}

// Inherit starts from the parent's environment.
func Inherit() Environment {
	return Environment{inherit: true}
}

// Empty starts from a cleared environment.
func Empty() Environment {
	return Environment{}
}

// FromMap builds a cleared environment holding exactly the
// given variables.
func FromMap(vars map[string]string) Environment {
	return Empty().InsertMap(vars)
}

// FromPairs builds a cleared environment from "KEY=value"
// strings. Entries without "=" set the key to the empty
// string.
func FromPairs(pairs ...string) Environment {
	e := Empty()
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		e = e.Insert(key, value)
	}
	return e
}

// Insert returns a copy of the environment with the variable
// set. Later inserts of the same key win.
func (e Environment) Insert(key, value string) Environment {
	return e.push(operation{key: key, value: value})
}

// Remove returns a copy of the environment with the variable
// dropped, including an inherited one.
func (e Environment) Remove(key string) Environment {
	return e.push(operation{key: key, remove: true})
}

// InsertMap returns a copy of the environment with every
// variable of the map set. Keys are applied in sorted order so
// the recorded recipe is deterministic.
func (e Environment) InsertMap(
	vars map[string]string,
) Environment {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := e
	for _, key := range keys {
		out = out.Insert(key, vars[key])
	}
	return out
}

// Compile flattens the recipe into "KEY=value" pairs ready for
// a process spec. Inherited variables come first, then the
// recorded operations in order, with the last write to a key
// winning.
func (e Environment) Compile() []string {
	values := make(map[string]string)
	var order []string

	set := func(key, value string) {
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = value
	}

	if e.inherit {
		for _, pair := range os.Environ() {
			key, value, _ := strings.Cut(pair, "=")
			set(key, value)
		}
	}

	for _, op := range e.ops {
		if op.remove {
			delete(values, op.key)
			continue
		}
		set(op.key, op.value)
	}

	// A removed key can re-enter order on a later insert, so
	// emission tracks keys to keep each pair unique.
	compiled := make([]string, 0, len(values))
	emitted := make(map[string]bool, len(values))
	for _, key := range order {
		value, ok := values[key]
		if !ok || emitted[key] {
			continue
		}
		emitted[key] = true
		compiled = append(compiled, key+"="+value)
	}
	return compiled
}

// push appends an operation without sharing slice backing with
// the receiver.
func (e Environment) push(op operation) Environment {
	ops := make([]operation, len(e.ops), len(e.ops)+1)
	copy(ops, e.ops)
	return Environment{
		inherit: e.inherit,
		ops:     append(ops, op),
	}
}
