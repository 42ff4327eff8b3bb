package policy

// DefaultName is the policy used when a requested name is not registered.
const DefaultName = "scan"

var registry = []Policy{
	{
		Name:        "scan",
		Description: "SCAN/LOOK - Continues in direction until no more requests",
		Next:        Scan,
	},
	{
		Name:        "sstf",
		Description: "SSTF - Always moves to the nearest requested floor",
		Next:        ShortestSeek,
	},
	{
		Name:        "nearest",
		Description: "Nearest Neighbor - Closest stop with direction preference",
		Next:        Nearest,
	},
}

// Lookup returns the policy registered under name. Unknown names resolve to
// the default policy with ok set to false; lookup never fails.
func Lookup(name string) (Policy, bool) {
	if i := indexOf(name); i >= 0 {
		return registry[i], true
	}
	return Default(), false
}

// Default returns the fallback policy
func Default() Policy {
	return registry[indexOf(DefaultName)]
}

func indexOf(name string) int {
	for i, p := range registry {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// All returns the registered policies in registration order
func All() []Policy {
	out := make([]Policy, len(registry))
	copy(out, registry)
	return out
}

// Names returns the registered policy names
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, p := range registry {
		names = append(names, p.Name)
	}
	return names
}
