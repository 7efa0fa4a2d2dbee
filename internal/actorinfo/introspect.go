package actorinfo

import "fmt"

// ValidationError is one offending parameter or result type found while
// validating a Descriptor's method table. Validation collects every
// offending member instead of failing on the first.
type ValidationError struct {
	Method string
	Detail string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Detail)
}

// ValidationReport collects every ValidationError found while building an
// ActorInfo. Registration must be refused unless the report is empty.
type ValidationReport struct {
	Errors []ValidationError
}

// OK reports whether the actor passed validation.
func (r *ValidationReport) OK() bool {
	return len(r.Errors) == 0
}

func (r *ValidationReport) add(method, detail string) {
	r.Errors = append(r.Errors, ValidationError{Method: method, Detail: detail})
}

// Error implements error so a non-empty ValidationReport can be returned
// directly as the cause of a BAD_REQUEST.
func (r *ValidationReport) Error() string {
	msg := fmt.Sprintf("%d method(s) failed validation", len(r.Errors))
	for _, e := range r.Errors {
		msg += "; " + e.Error()
	}
	return msg
}

// Build derives an ActorInfo from a loaded actor instance's Descriptor and
// validates every method's declared parameter and result tags. A tag is
// valid if it is a built-in scalar or names a type present in the
// Descriptor's own DTOTypes table — an actor cannot reference a DTO it
// hasn't also registered a factory for.
//
// The returned ActorInfo only ever contains methods that passed
// validation; callers must check report.OK() before registering the
// actor.
func Build(name, modulePath, moduleID string, desc Descriptor) (*ActorInfo, *ValidationReport) {
	dtoTypes := desc.DTOTypes()
	methods := desc.ActorMethods()

	report := &ValidationReport{}
	info := &ActorInfo{
		Name:       name,
		ModulePath: modulePath,
		ModuleID:   moduleID,
		Methods:    make(map[string]*MethodInfo, len(methods)),
		DTOTypes:   dtoTypes,
	}

	for methodName, spec := range methods {
		ok := true

		for _, p := range spec.Params {
			if !validTag(p.Tag, dtoTypes) {
				report.add(methodName, fmt.Sprintf(
					"parameter (%s) has unrecognised type tag (%s)",
					p.Name, p.Tag))
				ok = false
			}
		}

		if !validTag(spec.ResultTag, dtoTypes) {
			report.add(methodName, fmt.Sprintf(
				"result has unrecognised type tag (%s)", spec.ResultTag))
			ok = false
		}

		if spec.Handler == nil {
			report.add(methodName, "method has no handler")
			ok = false
		}

		if !ok {
			continue
		}

		params := make([]Param, len(spec.Params))
		for i, p := range spec.Params {
			params[i] = Param{Name: p.Name, Tag: p.Tag}
		}

		info.Methods[methodName] = &MethodInfo{
			Doc:       spec.Doc,
			Params:    params,
			ResultTag: spec.ResultTag,
			Invoke:    spec.Handler,
		}
	}

	return info, report
}

func validTag(tag TypeTag, dtoTypes map[string]DTOFactory) bool {
	if tag.IsScalar() {
		return true
	}
	_, ok := dtoTypes[string(tag)]
	return ok
}
