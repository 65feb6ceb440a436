package netdevice

import (
	"fmt"
	"sort"
)

// aliases maps a device_type to the registered descriptor name it shares,
// for families the dispatcher accepts under more than one spelling.
var aliases = map[string]string{
	"cisco_ios_xe": "cisco_ios",
}

// Platforms returns every supported device_type value, sorted, including
// aliases — the same shape as the dispatcher's sorted CLASS_MAPPER keys.
func Platforms() []string {
	seen := make(map[string]struct{}, len(registry)+len(aliases))
	for name := range registry {
		seen[name] = struct{}{}
	}
	for alias := range aliases {
		seen[alias] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Create builds a Device for opts.DeviceType. It does not touch the
// network; call Connect on the result. An unrecognized device_type
// returns a ProtocolError listing every supported value.
func Create(opts Options) (*Device, error) {
	resolved := opts.withDefaults()

	if resolved.Host == "" || resolved.Username == "" {
		return nil, &ProtocolError{Msg: "host and username are required"}
	}

	family := resolved.DeviceType
	if alias, ok := aliases[family]; ok {
		family = alias
	}

	desc, ok := lookupDescriptor(family)
	if !ok {
		return nil, &ProtocolError{Msg: fmt.Sprintf("unsupported device_type %q, supported: %v", opts.DeviceType, Platforms())}
	}

	return newDevice(resolved, desc), nil
}
