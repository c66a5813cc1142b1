package store

import "encoding/json"

// overlay shallow-merges patch over base at the JSON field level: every
// field patch serializes wins, every other field of base is kept. The
// "name" field is then forced to name.
//
// Optional record fields must use omitempty so that an unset field in the
// patch is absent rather than a zero value. Fields whose zero value is a
// meaningful update (a false flag, a zero price) must be pointers.
func overlay[T any](base, patch T, name string) (T, error) {
	var out T

	fields := make(map[string]json.RawMessage)
	if err := spread(fields, base); err != nil {
		return out, err
	}
	if err := spread(fields, patch); err != nil {
		return out, err
	}

	encodedName, err := json.Marshal(name)
	if err != nil {
		return out, err
	}
	fields[nameField] = encodedName

	raw, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

func spread(dst map[string]json.RawMessage, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, f := range fields {
		dst[k] = f
	}
	return nil
}
