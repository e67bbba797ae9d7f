package value

import "strconv"

// Path locates a node from the root: mapping keys and "[i]" sequence indexes.
type Path []string

func (p Path) String() string {
	out := ""
	for _, part := range p {
		if len(part) > 0 && part[0] == '[' {
			out += part
			continue
		}
		if out != "" {
			out += "."
		}
		out += part
	}
	return out
}

// Last returns the final path element, or "".
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Walk visits every String leaf beneath v in document order. The path slice
// is reused between calls; copy it to retain it.
func Walk(v *Value, fn func(path Path, leaf *Value)) {
	walk(v, nil, fn)
}

func walk(v *Value, path Path, fn func(Path, *Value)) {
	if v == nil {
		return
	}
	switch v.Kind {
	case String:
		fn(path, v)
	case Sequence:
		for i, item := range v.Items {
			walk(item, append(path, "["+strconv.Itoa(i)+"]"), fn)
		}
	case Mapping:
		for _, key := range v.Keys {
			walk(v.Fields[key], append(path, key), fn)
		}
	}
}
