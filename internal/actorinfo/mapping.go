package actorinfo

// ToMapping renders an ActorInfo as the JSON-safe shape core.info() sends
// over the wire: name/module_path/module_id/methods, each method carrying its doc,
// ordered [name, tag] parameter pairs, and its result tag. Methods is a
// map because the client only ever looks a method up by name.
func (a *ActorInfo) ToMapping() map[string]any {
	methods := make(map[string]any, len(a.Methods))
	for name, m := range a.Methods {
		params := make([]any, len(m.Params))
		for i, p := range m.Params {
			params[i] = []any{p.Name, string(p.Tag)}
		}
		methods[name] = map[string]any{
			"doc":         m.Doc,
			"params":      params,
			"result_type": string(m.ResultTag),
		}
	}

	return map[string]any{
		"name":        a.Name,
		"module_path": a.ModulePath,
		"module_id":   a.ModuleID,
		"methods":     methods,
	}
}
