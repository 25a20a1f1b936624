package daemon

import (
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/protobuf/types/known/structpb"
)

// Request and reply field names.
const (
	fieldIDs             = "ids"
	fieldRepoAttrs       = "repo_attrs"
	fieldPackageAttrs    = "package_attrs"
	fieldPatterns        = "patterns"
	fieldICase           = "icase"
	fieldWithNEVRA       = "with_nevra"
	fieldWithProvides    = "with_provides"
	fieldWithFilenames   = "with_filenames"
	fieldWithSrc         = "with_src"
	fieldSpecs           = "specs"
	fieldOptions         = "options"
	fieldStrict          = "strict"
	fieldRepoIDs         = "repo_ids"
	fieldTest            = "test"
	fieldContinueOnError = "continue_on_error"
	fieldIndex           = "index"
	fieldAction          = "action"
	fieldOutcome         = "outcome"
	fieldPackage         = "package"
	fieldError           = "error"
)

func invalidField(name, want string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidOptionValue, "field must be "+want), "field", name)
}

// stringsField reads a list of strings. A missing field is nil.
func stringsField(st *structpb.Struct, name string) ([]string, error) {
	v, ok := st.GetFields()[name]
	if !ok {
		return nil, nil
	}
	return stringsValue(v.GetListValue(), name)
}

func stringsValue(list *structpb.ListValue, name string) ([]string, error) {
	if list == nil {
		return nil, invalidField(name, "a list of strings")
	}
	out := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, invalidField(name, "a list of strings")
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

// boolField reads a boolean. A missing field is false.
func boolField(st *structpb.Struct, name string) (bool, error) {
	return boolFieldOr(st, name, false)
}

// boolFieldOr reads a boolean field, returning def when it is absent.
func boolFieldOr(st *structpb.Struct, name string, def bool) (bool, error) {
	v, ok := st.GetFields()[name]
	if !ok {
		return def, nil
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, invalidField(name, "a boolean")
	}
	return b.BoolValue, nil
}

// stringList builds a list value of strings.
func stringList(items []string) *structpb.ListValue {
	values := make([]*structpb.Value, len(items))
	for i, item := range items {
		values[i] = structpb.NewStringValue(item)
	}
	return &structpb.ListValue{Values: values}
}

// mapList builds a list value of structs.
func mapList(items []map[string]any) (*structpb.ListValue, error) {
	values := make([]*structpb.Value, len(items))
	for i, item := range items {
		st, err := structpb.NewStruct(item)
		if err != nil {
			return nil, zerr.Wrap(err, "cannot encode reply")
		}
		values[i] = structpb.NewStructValue(st)
	}
	return &structpb.ListValue{Values: values}, nil
}

func stringMapList(items []map[string]string) (*structpb.ListValue, error) {
	converted := make([]map[string]any, len(items))
	for i, item := range items {
		converted[i] = stringMap(item)
	}
	return mapList(converted)
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// jobSettings reads the "options" struct of a job request. A missing
// "strict" leaves the configured default in effect.
func jobSettings(st *structpb.Struct) (domain.GoalJobSettings, error) {
	var settings domain.GoalJobSettings
	v, ok := st.GetFields()[fieldOptions]
	if !ok {
		return settings, nil
	}
	opts := v.GetStructValue()
	if opts == nil {
		return settings, invalidField(fieldOptions, "a struct")
	}
	if _, ok := opts.GetFields()[fieldStrict]; ok {
		strict, err := boolField(opts, fieldStrict)
		if err != nil {
			return settings, err
		}
		settings.Strict = domain.SettingFromBool(strict)
	}
	repoIDs, err := stringsField(opts, fieldRepoIDs)
	if err != nil {
		return settings, err
	}
	settings.RepoIDs = repoIDs
	if settings.ICase, err = boolField(opts, fieldICase); err != nil {
		return settings, err
	}
	return settings, nil
}

// encodeJobSettings is the inverse of jobSettings.
func encodeJobSettings(settings domain.GoalJobSettings) map[string]any {
	opts := map[string]any{}
	if settings.Strict != domain.SettingAuto {
		opts[fieldStrict] = settings.Strict.Resolve(false)
	}
	if len(settings.RepoIDs) > 0 {
		ids := make([]any, len(settings.RepoIDs))
		for i, id := range settings.RepoIDs {
			ids[i] = id
		}
		opts[fieldRepoIDs] = ids
	}
	if settings.ICase {
		opts[fieldICase] = true
	}
	return opts
}

// packageListOptions reads an Rpm.List request. Flags left out of the
// request take their ports.DefaultPackageListOptions values.
func packageListOptions(st *structpb.Struct) (ports.PackageListOptions, error) {
	opts := ports.DefaultPackageListOptions()
	var err error
	if opts.Attrs, err = stringsField(st, fieldPackageAttrs); err != nil {
		return opts, err
	}
	if opts.Patterns, err = stringsField(st, fieldPatterns); err != nil {
		return opts, err
	}
	flags := []struct {
		name string
		dst  *bool
	}{
		{fieldICase, &opts.ICase},
		{fieldWithNEVRA, &opts.WithNEVRA},
		{fieldWithProvides, &opts.WithProvides},
		{fieldWithFilenames, &opts.WithFilenames},
		{fieldWithSrc, &opts.WithSrc},
	}
	for _, f := range flags {
		if *f.dst, err = boolFieldOr(st, f.name, *f.dst); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// encodePackageListOptions is the inverse of packageListOptions.
func encodePackageListOptions(opts ports.PackageListOptions) map[string]any {
	out := map[string]any{
		fieldICase:         opts.ICase,
		fieldWithNEVRA:     opts.WithNEVRA,
		fieldWithProvides:  opts.WithProvides,
		fieldWithFilenames: opts.WithFilenames,
		fieldWithSrc:       opts.WithSrc,
	}
	if opts.Attrs != nil {
		out[fieldPackageAttrs] = anyList(opts.Attrs)
	}
	if opts.Patterns != nil {
		out[fieldPatterns] = anyList(opts.Patterns)
	}
	return out
}

func anyList(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
